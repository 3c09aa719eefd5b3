package geometry

import (
	"math"
	"strconv"
	"strings"
)

// PathAppend extends an SVG path with one more point. An empty path gets a
// moveto, anything else a lineto; earlier text is left as is.
func PathAppend(d string, p Point) string {
	if strings.TrimSpace(d) == "" {
		return "M " + formatCoord(p.X) + " " + formatCoord(p.Y)
	}
	return d + " L " + formatCoord(p.X) + " " + formatCoord(p.Y)
}

// PathPoints decodes a path built by PathAppend. Unknown commands and
// malformed numbers end the decoding; the points read so far are returned.
func PathPoints(d string) []Point {
	fields := strings.Fields(d)
	points := make([]Point, 0, len(fields)/3)
	for i := 0; i+2 < len(fields); i += 3 {
		if fields[i] != "M" && fields[i] != "L" {
			break
		}
		x, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			break
		}
		y, err := strconv.ParseFloat(fields[i+2], 64)
		if err != nil {
			break
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
