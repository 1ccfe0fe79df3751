package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load reads a graph file from path. See the package documentation for the
// format.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a graph description from r.
func Parse(r io.Reader) (*Graph, error) {
	scanner := bufio.NewScanner(r)

	n := -1
	edges := []Edge{}
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)

		if n < 0 {
			if len(fields) != 1 {
				return nil, fmt.Errorf("line %d: expected the number of vertices, got %q", line, text)
			}
			v, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", line, err)
			}
			n = v
			continue
		}

		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected \"<u> <v> <weight>\", got %q", line, text)
		}
		u, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		w, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}

		e, err := NewEdge(u, v, w)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		edges = append(edges, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if n < 0 {
		return nil, fmt.Errorf("%w: empty graph description", ErrInvalidGraph)
	}

	return NewGraph(n, edges)
}
