package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
)

// Opener abstracts the method of opening a git repository
// This allows for dependency injection in tests
type Opener interface {
	// Open opens the repository containing path, searching parent directories.
	Open(path string) (Repository, error)
}

// Repository abstracts go-git repository operations for testing
type Repository interface {
	// Root returns the worktree root directory.
	Root() (string, error)
	// Head returns the reference where HEAD is pointing to
	Head() (*plumbing.Reference, error)
}

// DefaultOpener implements Opener using go-git with parent-directory detection.
type DefaultOpener struct{}

// Open opens a git repository at or above path using go-git
func (d *DefaultOpener) Open(path string) (Repository, error) {
	if path == "" {
		path = "."
	}
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return &goGitRepository{repo: repo}, nil
}

// goGitRepository wraps go-git's Repository to implement our Repository interface
type goGitRepository struct {
	repo *gogit.Repository
}

func (r *goGitRepository) Root() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

func (r *goGitRepository) Head() (*plumbing.Reference, error) {
	return r.repo.Head()
}

// State is a snapshot of the repository shown by `occtl doctor`.
type State struct {
	Root       string
	BranchName string // "detached" when HEAD is not a branch
}

// CaptureState opens the repository containing path and reports its root and branch.
func CaptureState(opener Opener, path string) (*State, error) {
	repo, err := opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", path, err)
	}
	root, err := repo.Root()
	if err != nil {
		return nil, fmt.Errorf("resolving worktree: %w", err)
	}

	state := &State{Root: root, BranchName: "detached"}
	head, err := repo.Head()
	if err != nil {
		// Fresh repository without commits.
		return state, nil
	}
	if head.Name().IsBranch() {
		state.BranchName = head.Name().Short()
	}
	return state, nil
}

func openerToplevel(opener Opener, dir string) (string, error) {
	repo, err := opener.Open(dir)
	if err != nil {
		return "", ErrNotRepository
	}
	root, err := repo.Root()
	if err != nil || root == "" {
		return "", ErrNotRepository
	}
	return root, nil
}
