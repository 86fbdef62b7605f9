package layout

// CalculateListHeight computes how many result rows fit on screen.
// The preferred height wins when the terminal is tall enough.
func CalculateListHeight(terminalHeight, extraLines int, cfg ListConfig) int {
	height := cfg.Height
	if terminalHeight > 0 {
		available := terminalHeight - cfg.ReservedLines - extraLines
		if available < height {
			height = available
		}
	}
	if height < cfg.MinHeight {
		height = cfg.MinHeight
	}
	if height < 1 {
		height = 1
	}
	return height
}

// ClampOffset keeps a viewport offset inside [0, total-height].
func ClampOffset(offset, total, height int) int {
	maxOffset := total - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// ScrollNearest returns the offset that makes target visible while moving
// the viewport as little as possible. A negative target leaves the offset
// unchanged apart from clamping.
func ScrollNearest(offset, target, total, height int) int {
	if height <= 0 {
		return 0
	}
	if target >= 0 && target < total {
		if target < offset {
			offset = target
		} else if target >= offset+height {
			offset = target - height + 1
		}
	}
	return ClampOffset(offset, total, height)
}

// VisibleRange returns the start and end indices of the rows shown at
// offset, so items[start:end] should be displayed.
func VisibleRange(offset, total, height int) (start, end int) {
	start = ClampOffset(offset, total, height)
	end = start + height
	if end > total {
		end = total
	}
	return start, end
}
