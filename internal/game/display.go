package game

// Display is the presentation collaborator the engine notifies. The engine
// never renders anything itself; implementations re-read state through the
// engine's accessors or a Snapshot.
type Display interface {
	// OnGameStart is called once, on the first accepted left click.
	OnGameStart()
	// OnGameEnd is called once when the game is won or lost.
	OnGameEnd(outcome Outcome, elapsedSeconds int)
	// Refresh lists the cells whose visible state changed, in row-major order.
	Refresh(changed []Pos)
}

// NopDisplay ignores every notification.
type NopDisplay struct{}

func (NopDisplay) OnGameStart() {}
func (NopDisplay) OnGameEnd(Outcome, int) {}
func (NopDisplay) Refresh([]Pos) {}
