package world

// Grid spacing for the anti-overlap fan-out, in viewport units.
// Cells are wider than tall, so the horizontal step is larger.
const (
	offsetStepX = 4.0
	offsetStepY = 1.0
)

// Offset derives a small (dx, dy) nudge from an identifier so that
// NPCs sharing a zone anchor fan out into a 3×3 grid instead of
// stacking. It depends on the identifier alone, never on arrival order
// or on how many other NPCs are present.
func Offset(id int) (dx, dy float64) {
	slot := id % 9
	if slot < 0 {
		slot += 9
	}
	col := slot % 3
	row := slot / 3
	return float64(col-1) * offsetStepX, float64(row-1) * offsetStepY
}
