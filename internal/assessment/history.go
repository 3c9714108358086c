package assessment

import "slices"

// Frame records a visited question at the moment the user moved on:
// its id, the answer at time of leaving, and the pending-route queue
// as it stood before that question was visited. Restoring the frame
// restores the queue snapshot, not the queue as later mutated, so
// backward navigation cannot lose or duplicate pending branches.
type Frame struct {
	QuestionID string   `json:"questionId"`
	Answer     Answer   `json:"answer"`
	Pending    []string `json:"pending,omitempty"`
}

// History is the backward-navigation stack.
type History struct {
	frames []Frame
}

// NewHistory creates an empty stack.
func NewHistory() *History {
	return &History{}
}

// Push records a frame on forward navigation. The frame's queue
// snapshot is copied so later queue mutation cannot reach it.
func (h *History) Push(f Frame) {
	f.Answer = f.Answer.clone()
	f.Pending = slices.Clone(f.Pending)
	h.frames = append(h.frames, f)
}

// Pop removes and returns the most recent frame.
func (h *History) Pop() (Frame, bool) {
	if len(h.frames) == 0 {
		return Frame{}, false
	}
	f := h.frames[len(h.frames)-1]
	h.frames = h.frames[:len(h.frames)-1]
	return f, true
}

// Len returns the stack depth.
func (h *History) Len() int {
	return len(h.frames)
}

// Frames returns a copy of the stack, oldest first, for serialization.
func (h *History) Frames() []Frame {
	out := make([]Frame, len(h.frames))
	for i, f := range h.frames {
		out[i] = Frame{
			QuestionID: f.QuestionID,
			Answer:     f.Answer.clone(),
			Pending:    slices.Clone(f.Pending),
		}
	}
	return out
}

// Restore replaces the stack contents, for deserialization.
func (h *History) Restore(frames []Frame) {
	h.frames = h.frames[:0]
	for _, f := range frames {
		h.Push(f)
	}
}
