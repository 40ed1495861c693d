package tileset

// Frame returns the animation frame the atom shows at the given timer tick.
// Entity sprites use the same rules.
func (a *Atom) Frame(timer int) int {
	if a == nil {
		return 0
	}
	return AnimFrame(timer, a.AnimFrames, a.AnimSpeed, a.AnimOffset, a.AnimMode)
}

// AnimFrame computes a frame index from raw animation fields. Speed values
// below 1 are treated as 1.
func AnimFrame(timer, frames, speed, offset int, mode AnimMode) int {
	if frames <= 1 {
		return 0
	}
	if speed < 1 {
		speed = 1
	}
	t := floorDiv(timer+offset, speed)
	switch mode {
	case AnimBackward:
		return frames - 1 - floorMod(t, frames)
	case AnimPingPong, AnimPingPongReverse:
		cycle := frames - 1
		sub := floorMod(t, cycle)
		flip := floorMod(floorDiv(t, cycle), 2) == 1
		if mode == AnimPingPongReverse {
			flip = !flip
		}
		if flip {
			return cycle - sub
		}
		return sub
	default:
		return floorMod(t, frames)
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
