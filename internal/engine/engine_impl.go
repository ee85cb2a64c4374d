package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stax.dev/stax/internal/config"
	staxerrors "stax.dev/stax/internal/errors"
	"stax.dev/stax/internal/git"
)

// engineImpl implements Engine on top of the git metadata refs
type engineImpl struct {
	repoRoot      string
	trunk         string
	currentBranch string
	branches      []string
	parentMap     map[string]string   // branch -> parent
	childrenMap   map[string][]string // branch -> children, tracking order
	revisionMap   map[string]string   // branch -> recorded parent revision
	mu            sync.RWMutex
}

// NewEngine creates a new engine instance
func NewEngine(repoRoot string) (Engine, error) {
	if err := git.InitDefaultRepo(); err != nil {
		return nil, fmt.Errorf("failed to initialize git repository: %w", err)
	}

	e := &engineImpl{
		repoRoot:    repoRoot,
		parentMap:   make(map[string]string),
		childrenMap: make(map[string][]string),
		revisionMap: make(map[string]string),
	}

	trunk, err := config.GetTrunk(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to get trunk: %w", err)
	}
	e.trunk = trunk

	currentBranch, err := git.GetCurrentBranch()
	if err != nil {
		// Not on a branch - that's okay
		currentBranch = ""
	}
	e.currentBranch = currentBranch

	if err := e.rebuild(); err != nil {
		return nil, fmt.Errorf("failed to rebuild engine: %w", err)
	}

	return e, nil
}

// rebuild loads all branches and their metadata from Git
func (e *engineImpl) rebuild() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rebuildInternal()
}

// rebuildInternal is the internal rebuild logic without locking
func (e *engineImpl) rebuildInternal() error {
	branches, err := git.GetAllBranchNames()
	if err != nil {
		return fmt.Errorf("failed to get branches: %w", err)
	}
	e.branches = branches

	if currentBranch, err := git.GetCurrentBranch(); err == nil {
		e.currentBranch = currentBranch
	} else {
		e.currentBranch = ""
	}

	e.parentMap = make(map[string]string)
	e.childrenMap = make(map[string][]string)
	e.revisionMap = make(map[string]string)
	trackedAt := make(map[string]int64)

	for _, branchName := range branches {
		meta, err := git.ReadMetadataRef(branchName)
		if err != nil {
			continue
		}

		if meta.ParentBranchName != nil {
			parent := *meta.ParentBranchName
			e.parentMap[branchName] = parent
			e.childrenMap[parent] = append(e.childrenMap[parent], branchName)
			trackedAt[branchName] = meta.TrackedAt
			if meta.ParentBranchRevision != nil {
				e.revisionMap[branchName] = *meta.ParentBranchRevision
			}
		}
	}

	// Order siblings by when they were tracked, not alphabetically, so
	// plans come out in a stable, user-meaningful order.
	for parent := range e.childrenMap {
		children := e.childrenMap[parent]
		sort.SliceStable(children, func(i, j int) bool {
			return trackedAt[children[i]] < trackedAt[children[j]]
		})
	}

	return nil
}

// AllBranchNames returns all branch names
func (e *engineImpl) AllBranchNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.branches
}

// CurrentBranch returns the current branch name
func (e *engineImpl) CurrentBranch() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentBranch
}

// Trunk returns the trunk branch name
func (e *engineImpl) Trunk() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trunk
}

// GetParent returns the parent branch name (empty string if no parent)
func (e *engineImpl) GetParent(branchName string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.parentMap[branchName]
}

// GetParentRevision returns the recorded parent revision (empty if untracked)
func (e *engineImpl) GetParentRevision(branchName string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revisionMap[branchName]
}

// GetChildren returns the children branches in tracking order
func (e *engineImpl) GetChildren(branchName string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if children, ok := e.childrenMap[branchName]; ok {
		return children
	}
	return []string{}
}

// GetRelativeStack returns the stack relative to a branch.
// Order: ancestors trunk-first (if RecursiveParents), the branch itself (if
// IncludeCurrent), then descendants pre-order (if RecursiveChildren).
func (e *engineImpl) GetRelativeStack(branchName string, scope Scope) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := []string{}

	if scope.RecursiveParents {
		current := branchName
		ancestors := []string{}
		for {
			if current == e.trunk {
				break
			}
			parent, ok := e.parentMap[current]
			if !ok {
				break
			}
			ancestors = append([]string{parent}, ancestors...)
			current = parent
		}
		result = append(result, ancestors...)
	}

	if scope.IncludeCurrent {
		result = append(result, branchName)
	}

	if scope.RecursiveChildren {
		result = append(result, e.descendantsInternal(branchName)...)
	}

	return result
}

// descendantsInternal collects descendants pre-order, without the start branch
func (e *engineImpl) descendantsInternal(branchName string) []string {
	result := []string{}
	visited := make(map[string]bool)

	var collect func(string)
	collect = func(branch string) {
		if visited[branch] {
			return
		}
		visited[branch] = true

		if branch != branchName {
			result = append(result, branch)
		}

		for _, child := range e.childrenMap[branch] {
			collect(child)
		}
	}

	collect(branchName)
	return result
}

// IsTrunk checks if a branch is the trunk
func (e *engineImpl) IsTrunk(branchName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return branchName == e.trunk
}

// IsBranchTracked checks if a branch is tracked (has metadata)
func (e *engineImpl) IsBranchTracked(branchName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.parentMap[branchName]
	return ok
}

// IsBranchFixed checks if a branch needs restacking.
// A branch is fixed if its recorded parent revision matches the parent's
// live tip.
func (e *engineImpl) IsBranchFixed(branchName string) bool {
	if e.IsTrunk(branchName) {
		return true
	}

	e.mu.RLock()
	parent, ok := e.parentMap[branchName]
	recorded := e.revisionMap[branchName]
	e.mu.RUnlock()

	if !ok {
		return true // Not tracked, nothing to restack against
	}
	if recorded == "" {
		return false // No recorded revision, needs restack
	}

	parentRev, err := e.GetRevision(parent)
	if err != nil {
		return false // Can't determine, assume needs restack
	}

	return recorded == parentRev
}

// GetRevision returns the SHA of a branch
func (e *engineImpl) GetRevision(branchName string) (string, error) {
	return git.GetRevision(branchName)
}

// TrackBranch tracks a branch with a parent branch
func (e *engineImpl) TrackBranch(branchName string, parentBranchName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validateRelationship(branchName, parentBranchName); err != nil {
		return err
	}

	// Record the merge base as the last-known-good parent revision
	parentRevision, err := git.GetMergeBase(branchName, parentBranchName)
	if err != nil {
		return fmt.Errorf("failed to get merge base: %w", err)
	}

	meta := &git.Meta{
		ParentBranchName:     &parentBranchName,
		ParentBranchRevision: &parentRevision,
		TrackedAt:            time.Now().UnixNano(),
	}

	if err := git.WriteMetadataRef(branchName, meta); err != nil {
		return fmt.Errorf("failed to write metadata ref: %w", err)
	}

	e.parentMap[branchName] = parentBranchName
	e.childrenMap[parentBranchName] = append(e.childrenMap[parentBranchName], branchName)
	e.revisionMap[branchName] = parentRevision

	return nil
}

// UntrackBranch removes a branch from the store, reparenting its children
// onto its parent. The git branch itself is left alone.
func (e *engineImpl) UntrackBranch(branchName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	parent, ok := e.parentMap[branchName]
	if !ok {
		return fmt.Errorf("branch %s is not tracked", branchName)
	}

	for _, child := range e.childrenMap[branchName] {
		if err := e.setParentInternal(child, parent); err != nil {
			return err
		}
	}

	if err := git.DeleteMetadataRef(branchName); err != nil {
		return fmt.Errorf("failed to delete metadata ref: %w", err)
	}

	e.removeFromMaps(branchName, parent)
	return nil
}

// SetParent updates a branch's parent
func (e *engineImpl) SetParent(branchName string, parentBranchName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validateRelationship(branchName, parentBranchName); err != nil {
		return err
	}
	return e.setParentInternal(branchName, parentBranchName)
}

// validateRelationship enforces the forest invariant: the branch and parent
// must exist, the branch must not be trunk, and the new edge must not close
// a cycle. Callers hold the lock.
func (e *engineImpl) validateRelationship(branchName, parentBranchName string) error {
	if branchName == e.trunk {
		return staxerrors.ErrTrunkOperation
	}
	if branchName == parentBranchName {
		return staxerrors.NewInvalidGraphError(branchName, parentBranchName, "a branch cannot be its own parent")
	}

	if !e.branchExistsInternal(branchName) {
		return staxerrors.NewBranchNotFoundError(branchName)
	}
	if parentBranchName != e.trunk && !e.branchExistsInternal(parentBranchName) {
		return staxerrors.NewInvalidGraphError(branchName, parentBranchName, "parent branch does not exist")
	}

	// Walk up from the proposed parent; reaching branchName means the edge
	// would close a cycle. Bounded by the number of tracked branches.
	seen := 0
	for current := parentBranchName; current != ""; current = e.parentMap[current] {
		if current == branchName {
			return staxerrors.NewInvalidGraphError(branchName, parentBranchName, "would create a cycle")
		}
		seen++
		if seen > len(e.parentMap)+1 {
			return staxerrors.NewInvalidGraphError(branchName, parentBranchName, "parent chain does not terminate at trunk")
		}
	}

	return nil
}

// branchExistsInternal checks the cached branch list, refreshing it once on miss
func (e *engineImpl) branchExistsInternal(branchName string) bool {
	if contains(e.branches, branchName) {
		return true
	}
	branches, err := git.GetAllBranchNames()
	if err != nil {
		return false
	}
	e.branches = branches
	return contains(e.branches, branchName)
}

// setParentInternal updates parent without validation (caller must hold lock)
func (e *engineImpl) setParentInternal(branchName string, parentBranchName string) error {
	parentRev, err := git.GetMergeBase(branchName, parentBranchName)
	if err != nil {
		return fmt.Errorf("failed to get merge base: %w", err)
	}

	meta, err := git.ReadMetadataRef(branchName)
	if err != nil {
		meta = &git.Meta{}
	}

	oldParent := ""
	if meta.ParentBranchName != nil {
		oldParent = *meta.ParentBranchName
	}
	if meta.TrackedAt == 0 {
		meta.TrackedAt = time.Now().UnixNano()
	}

	meta.ParentBranchName = &parentBranchName
	meta.ParentBranchRevision = &parentRev

	if err := git.WriteMetadataRef(branchName, meta); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if oldParent != "" {
		e.childrenMap[oldParent] = remove(e.childrenMap[oldParent], branchName)
	}

	e.parentMap[branchName] = parentBranchName
	e.revisionMap[branchName] = parentRev
	if !contains(e.childrenMap[parentBranchName], branchName) {
		e.childrenMap[parentBranchName] = append(e.childrenMap[parentBranchName], branchName)
	}

	return nil
}

// DeleteBranch deletes a branch and its metadata, reparenting children
func (e *engineImpl) DeleteBranch(ctx context.Context, branchName string) error {
	if e.IsTrunk(branchName) {
		return staxerrors.ErrTrunkOperation
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	children := e.childrenMap[branchName]
	parent, ok := e.parentMap[branchName]
	if !ok {
		parent = e.trunk
	}

	if e.currentBranch == branchName {
		if err := git.CheckoutBranch(ctx, parent); err != nil {
			return err
		}
		e.currentBranch = parent
	}

	if err := git.DeleteBranch(ctx, branchName); err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}

	// Metadata ref may not exist for untracked branches
	_ = git.DeleteMetadataRef(branchName)

	for _, child := range children {
		if err := e.setParentInternal(child, parent); err != nil {
			return err
		}
	}

	e.removeFromMaps(branchName, parent)
	e.branches = remove(e.branches, branchName)

	return nil
}

// removeFromMaps drops a branch from the relationship maps (caller holds lock)
func (e *engineImpl) removeFromMaps(branchName, parent string) {
	delete(e.parentMap, branchName)
	delete(e.childrenMap, branchName)
	delete(e.revisionMap, branchName)
	if parent != "" {
		e.childrenMap[parent] = remove(e.childrenMap[parent], branchName)
	}
}

// Reset clears all branch metadata and rebuilds with new trunk
func (e *engineImpl) Reset(newTrunkName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.trunk = newTrunkName

	metadataRefs, err := git.GetMetadataRefList()
	if err != nil {
		return fmt.Errorf("failed to get metadata refs: %w", err)
	}

	for branchName := range metadataRefs {
		if err := git.DeleteMetadataRef(branchName); err != nil {
			continue
		}
	}

	return e.rebuildInternal()
}

// Rebuild reloads the branch cache with a new trunk
func (e *engineImpl) Rebuild(newTrunkName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.trunk = newTrunkName
	return e.rebuildInternal()
}

// PullTrunk fast-forwards the trunk branch from its remote
func (e *engineImpl) PullTrunk(ctx context.Context) error {
	e.mu.RLock()
	trunk := e.trunk
	e.mu.RUnlock()

	if err := git.PullBranch(ctx, "origin", trunk); err != nil {
		return err
	}

	return e.rebuild()
}

// Helper functions
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func remove(slice []string, item string) []string {
	for i, s := range slice {
		if s == item {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}
