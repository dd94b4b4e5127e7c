package tour

// rankBetween reports whether y lies on the forward (increasing, wrapping)
// arc from x to z: walking ranks upward from x, not through z, we reach y
// strictly before z.
//
// This is the shared arithmetic core of every Between implementation in
// this package (Array compares tour positions directly; TwoLevelTree and
// TwoLevelList compare same-segment ranks or segment-ring ranks) — see
// original_source's top-level between() free function, which this mirrors.
//
// Complexity: O(1).
func rankBetween(x, y, z int) bool {
	if x < z {
		return x < y && y < z
	}
	return y > x || y < z
}
