package catalog

import "strconv"

// Marker is one slot of the pagination window: a page number or an ellipsis.
type Marker struct {
	Page     int
	Ellipsis bool
}

// PageMarker returns a marker for page n.
func PageMarker(n int) Marker {
	return Marker{Page: n}
}

// EllipsisMarker returns the gap marker.
func EllipsisMarker() Marker {
	return Marker{Ellipsis: true}
}

// String renders the marker as shown on the page bar.
func (m Marker) String() string {
	if m.Ellipsis {
		return "…"
	}
	return strconv.Itoa(m.Page)
}

// windowSlots is the number of pages above which the window collapses.
const windowSlots = 5

// Window returns the page markers shown for current out of total pages.
//
//	total <= 5          1..total
//	current <= 3        1 2 3 4 … total
//	current >= total-2  1 … total-3 total-2 total-1 total
//	otherwise           1 … current-1 current current+1 … total
func Window(current, total int) []Marker {
	if total <= 0 {
		return []Marker{}
	}

	if total <= windowSlots {
		markers := make([]Marker, 0, total)
		for p := 1; p <= total; p++ {
			markers = append(markers, PageMarker(p))
		}
		return markers
	}

	switch {
	case current <= 3:
		return []Marker{
			PageMarker(1), PageMarker(2), PageMarker(3), PageMarker(4),
			EllipsisMarker(), PageMarker(total),
		}
	case current >= total-2:
		return []Marker{
			PageMarker(1), EllipsisMarker(),
			PageMarker(total - 3), PageMarker(total - 2), PageMarker(total - 1), PageMarker(total),
		}
	default:
		return []Marker{
			PageMarker(1), EllipsisMarker(),
			PageMarker(current - 1), PageMarker(current), PageMarker(current + 1),
			EllipsisMarker(), PageMarker(total),
		}
	}
}
