package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FrameKind discriminates the suspended operation a frame resumes.
// The set is closed: resumption dispatches over it exhaustively, so a new
// suspendable operation means a new constant, a new payload field, and a
// new handler.
type FrameKind string

const (
	// FrameKindRestack resumes the remaining steps of an interrupted restack plan
	FrameKindRestack FrameKind = "restack"
	// FrameKindSync resumes a sync that was waiting on a subtree restack to finish
	FrameKindSync FrameKind = "sync"
)

// RestackStep is one step of a restack plan: rebase Branch so that it sits
// on NewParentRevision. An empty NewParentRevision means the parent was
// itself restacked earlier in the plan and its tip is resolved at execution
// time.
type RestackStep struct {
	Branch            string `json:"branch"`
	NewParentRevision string `json:"newParentRevision,omitempty"`
}

// RestackPayload is the state needed to resume an interrupted restack.
// PendingBranch is the branch whose rebase is still in progress; PendingBase
// is the parent revision to record for it once the rebase completes. The
// branch's metadata is only written at that point, never before.
type RestackPayload struct {
	RemainingPlan []RestackStep `json:"remainingPlan"`
	PendingBranch string        `json:"pendingBranch,omitempty"`
	PendingBase   string        `json:"pendingBase,omitempty"`
}

// SyncPayload is the state needed to resume an interrupted sync: the stack
// roots not yet restacked. The subtree that hit the conflict is owned by the
// restack frame stacked on top of this one.
type SyncPayload struct {
	RemainingRoots []string `json:"remainingRoots"`
}

// Frame is one suspended operation. Frames form a singly linked stack via
// Parent: resuming a frame to completion triggers resumption of its parent.
// Branches are referenced by name only; a frame never owns branch lifetime.
type Frame struct {
	Kind    FrameKind       `json:"kind"`
	Restack *RestackPayload `json:"restack,omitempty"`
	Sync    *SyncPayload    `json:"sync,omitempty"`
	Parent  *Frame          `json:"parent,omitempty"`
}

// ContinuationStore persists the frame chain in the repository's .git
// directory so it survives process exits. The on-disk state is either
// absent (nothing pending) or the top frame with its parent chain embedded.
type ContinuationStore struct {
	repoRoot string
}

// NewContinuationStore creates a store for the given repository root
func NewContinuationStore(repoRoot string) *ContinuationStore {
	return &ContinuationStore{repoRoot: repoRoot}
}

func (s *ContinuationStore) path() string {
	return filepath.Join(s.repoRoot, ".git", ".stax_continue")
}

// HasPending reports whether any frame is persisted
func (s *ContinuationStore) HasPending() bool {
	_, err := os.Stat(s.path())
	return err == nil
}

// Peek returns the top frame, or nil if nothing is pending
func (s *ContinuationStore) Peek() (*Frame, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read continuation state: %w", err)
	}

	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("failed to parse continuation state: %w", err)
	}
	return &frame, nil
}

// Push links frame onto the current top and persists it as the new top
func (s *ContinuationStore) Push(frame *Frame) error {
	top, err := s.Peek()
	if err != nil {
		return err
	}
	frame.Parent = top
	return s.persist(frame)
}

// Pop removes the top frame and persists its parent as the new top.
// Returns the removed frame, or nil if nothing was pending.
func (s *ContinuationStore) Pop() (*Frame, error) {
	top, err := s.Peek()
	if err != nil {
		return nil, err
	}
	if top == nil {
		return nil, nil
	}

	if top.Parent == nil {
		if err := s.Clear(); err != nil {
			return nil, err
		}
		return top, nil
	}

	if err := s.persist(top.Parent); err != nil {
		return nil, err
	}
	top.Parent = nil
	return top, nil
}

// ReplaceTop swaps the top frame in place, preserving its parent chain.
// With nothing pending it behaves like Push.
func (s *ContinuationStore) ReplaceTop(frame *Frame) error {
	top, err := s.Peek()
	if err != nil {
		return err
	}
	if top != nil {
		frame.Parent = top.Parent
	}
	return s.persist(frame)
}

// Clear removes all frames
func (s *ContinuationStore) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear continuation state: %w", err)
	}
	return nil
}

// persist writes the chain atomically: a rename either fully replaces the
// old chain or leaves it untouched.
func (s *ContinuationStore) persist(frame *Frame) error {
	data, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal continuation state: %w", err)
	}

	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write continuation state: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return fmt.Errorf("failed to persist continuation state: %w", err)
	}
	return nil
}
