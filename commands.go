package dragview

// Command is returned from input handlers and run by the application after
// the handler returns. A nil Command does nothing.
type Command any

// BatchCommand runs its commands in order.
type BatchCommand []Command

// AppendCommand combines current and next into one command. Batches are
// flattened one level, so appending to a batch never nests.
func AppendCommand(current Command, next Command) Command {
	switch {
	case next == nil:
		return current
	case current == nil:
		return next
	}
	return append(flatten(current), flatten(next)...)
}

func flatten(cmd Command) BatchCommand {
	if batch, ok := cmd.(BatchCommand); ok {
		return append(BatchCommand(nil), batch...)
	}
	return BatchCommand{cmd}
}

// SetFocusCommand focuses Target.
type SetFocusCommand struct {
	Target Primitive
}

// RedrawCommand redraws the screen once the event is handled.
type RedrawCommand struct{}

// QuitCommand stops the application.
type QuitCommand struct{}

// AnimateCommand keeps frames coming at FrameInterval until Source reports
// it is no longer animating.
type AnimateCommand struct {
	Source Animated
}
