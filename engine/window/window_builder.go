package window

// WindowBuilderOption is a functional option for configuring a viewerWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *viewerWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *viewerWindow) {
		w.title = title
	}
}

// WithSize sets the initial window dimensions.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *viewerWindow) {
		w.width = width
		w.height = height
	}
}

// WithMinSize sets the minimum allowed window dimensions during resize.
//
// Parameters:
//   - width: minimum width in pixels
//   - height: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *viewerWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithMaxSize sets the maximum allowed window dimensions during resize.
// Zero dimensions leave the corresponding axis unbounded.
//
// Parameters:
//   - width: maximum width in pixels
//   - height: maximum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *viewerWindow) {
		w.maxWidth = width
		w.maxHeight = height
	}
}
