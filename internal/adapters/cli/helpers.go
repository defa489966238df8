package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
)

// newTable returns a tabwriter for aligned list output.
func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// printJSON renders a read model verbatim for --json consumers.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return fmtTime(*t)
}

func fmtIntPtr(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// parsePolygon converts "x,y;x,y;..." into floor-plane points.
func parsePolygon(spec string) ([]layout.Point, error) {
	if spec == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ";")
	points := make([]layout.Point, 0, len(parts))
	for _, part := range parts {
		xy := strings.Split(strings.TrimSpace(part), ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("invalid polygon vertex %q: want x,y", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid polygon vertex %q: %w", part, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid polygon vertex %q: %w", part, err)
		}
		points = append(points, layout.Point{X: x, Y: y})
	}
	return points, nil
}

// parseAttributes converts repeated key=value pairs into the template
// attribute bag. Keys follow the variant fields: kit, ageGroup, gender,
// role, quality.
func parseAttributes(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("invalid attribute %q: want key=value", pair)
		}
		out[k] = v
	}
	return out, nil
}

// formatAttributes renders the constrained fields of an attribute filter
// as space-separated key=value pairs.
func formatAttributes(f catalog.AttributeFilter) string {
	parts := make([]string, 0, 5)
	if f.Kit != "" {
		parts = append(parts, "kit="+f.Kit)
	}
	if f.AgeGroup != "" {
		parts = append(parts, "ageGroup="+f.AgeGroup)
	}
	if f.Gender != "" {
		parts = append(parts, "gender="+f.Gender)
	}
	if f.Role != "" {
		parts = append(parts, "role="+f.Role)
	}
	if f.Quality != "" {
		parts = append(parts, "quality="+f.Quality)
	}
	return strings.Join(parts, " ")
}

// parseTimestamp accepts RFC 3339 or the short "2006-01-02 15:04:05" form.
// An empty value means the daemon clock decides.
func parseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: want RFC 3339 or YYYY-MM-DD HH:MM:SS", s)
	}
	return &t, nil
}
