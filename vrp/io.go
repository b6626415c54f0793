package vrp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadInstance parses the plain-text instance format:
//
//	<nodes> <vehicles> <capacity>
//	<demand> <x> <y>        one line per node, depot first
//
// nodes counts the depot. Blank lines are skipped; fields are separated by
// any whitespace.
func ReadInstance(r io.Reader, name string) (*Instance, error) {
	sc := bufio.NewScanner(r)
	var (
		lineNo    int
		header    []int
		nodes     []Node
		nodeCount int
	)
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if header == nil {
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: line %d: want \"nodes vehicles capacity\"", ErrBadFormat, lineNo)
			}
			header = make([]int, 3)
			for k, f := range fields {
				v, err := strconv.Atoi(f)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrBadFormat, lineNo, err)
				}
				header[k] = v
			}
			nodeCount = header[0]
			if nodeCount < 1 {
				return nil, fmt.Errorf("%w: line %d: %d nodes", ErrBadFormat, lineNo, nodeCount)
			}
			nodes = make([]Node, 0, nodeCount)

			continue
		}
		if len(nodes) == nodeCount {
			return nil, fmt.Errorf("%w: line %d: more than %d nodes", ErrBadFormat, lineNo, nodeCount)
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: want \"demand x y\"", ErrBadFormat, lineNo)
		}
		d, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadFormat, lineNo, err)
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadFormat, lineNo, err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadFormat, lineNo, err)
		}
		nodes = append(nodes, Node{X: x, Y: y, Demand: d})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("%w: empty input", ErrBadFormat)
	}
	if len(nodes) != nodeCount {
		return nil, fmt.Errorf("%w: %d of %d nodes", ErrBadFormat, len(nodes), nodeCount)
	}

	return NewInstance(name, nodes, header[2], header[1])
}

// WriteSolution writes the solution file format:
//
//	<cost> <1 if proven optimal else 0>
//	0 <route customers> 0     one line per route
func WriteSolution(w io.Writer, s Solution) error {
	bw := bufio.NewWriter(w)
	optimal := 0
	if s.Optimal() {
		optimal = 1
	}
	fmt.Fprintf(bw, "%s %d\n", strconv.FormatFloat(s.Cost, 'f', -1, 64), optimal)
	for _, r := range s.Routes {
		bw.WriteString(routeString(r))
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// Summary returns the one-line report
//
//	{"Instance": "<name>", "Time": "<seconds>", "Result": <cost>, "Solution": "<optimal> <route> <route> ..."}
//
// with time and cost printed to two decimals. The optimal flag is 1 or 0, as
// in the first line of WriteSolution.
func (s Solution) Summary() string {
	parts := make([]string, 0, len(s.Routes))
	for _, r := range s.Routes {
		parts = append(parts, routeString(r))
	}

	flag := 0
	if s.Optimal() {
		flag = 1
	}

	return fmt.Sprintf("{\"Instance\": %q, \"Time\": \"%.2f\", \"Result\": %.2f, \"Solution\": \"%d %s\"}",
		s.Instance, s.Elapsed.Seconds(), s.Cost, flag, strings.Join(parts, " "))
}

// routeString renders "0 a b ... 0".
func routeString(r []int) string {
	var b strings.Builder
	b.WriteString("0")
	for _, c := range r {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(c))
	}
	b.WriteString(" 0")

	return b.String()
}
