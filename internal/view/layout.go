package view

const DefaultMargin = 100

// Viewport is the latest size reported by whatever observes the screen.
type Viewport struct {
	Width  int
	Height int
}

// Layout sizes the scrollable container around the detail table.
type Layout struct {
	Margin int
}

func DefaultLayout() Layout {
	return Layout{Margin: DefaultMargin}
}

// ContainerWidth keeps the detail table inside the viewport minus the
// horizontal margin. It never goes below zero.
func (l Layout) ContainerWidth(vp Viewport) int {
	w := vp.Width - l.Margin
	if w < 0 {
		return 0
	}
	return w
}
