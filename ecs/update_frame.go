package ecs

// UpdateFrame is handed to every behavior during one update pass.
type UpdateFrame struct {
	DeltaTime float64
	Frame     uint64
	Commands  *Commands
	Runner    *Runner
}

func newUpdateFrame(runner *Runner) *UpdateFrame {
	return &UpdateFrame{
		Commands: newCommands(),
		Runner:   runner,
	}
}
