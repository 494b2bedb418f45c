package services

import (
	"errors"
	"fmt"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/pkg/event"
)

// ErrCategoryCycle is returned when an update would make a category its own
// ancestor.
var ErrCategoryCycle = errors.New("category cannot be its own ancestor")

// maxTreeDepth bounds the parent-chain walk so an already-corrupt tree
// cannot spin the guard forever.
const maxTreeDepth = 100

// CategoryService owns the category tree and enforces its shape: the parent
// chain of any node must never contain the node itself.
type CategoryService struct {
	repo *repositories.CategoryRepository
}

func NewCategoryService() *CategoryService {
	return &CategoryService{repo: repositories.NewCategoryRepository()}
}

// All returns every category.
func (s *CategoryService) All() ([]models.Category, error) {
	return s.repo.All()
}

// Find loads a single category.
func (s *CategoryService) Find(id uint) (models.Category, error) {
	return s.repo.FindByID(id)
}

// Create persists a new category after validating its proposed parent.
func (s *CategoryService) Create(c *models.Category) error {
	if c.ParentID != nil {
		if _, err := s.repo.FindByID(*c.ParentID); err != nil {
			return fmt.Errorf("category: parent %d: %w", *c.ParentID, err)
		}
	}
	if err := s.repo.Create(c); err != nil {
		return err
	}
	event.Fire("category.changed", c.ID)
	return nil
}

// Update persists changes to a category, rejecting any parent assignment
// that would create a cycle.
func (s *CategoryService) Update(c *models.Category) error {
	if c.ParentID != nil {
		if err := s.guardAgainstCycle(c.ID, *c.ParentID); err != nil {
			return err
		}
	}
	if err := s.repo.Update(c); err != nil {
		return err
	}
	event.Fire("category.changed", c.ID)
	return nil
}

// Delete removes a category; its children become roots.
func (s *CategoryService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	event.Fire("category.changed", id)
	return nil
}

// guardAgainstCycle walks the proposed parent chain upward. If id appears
// anywhere in it, the assignment would close a loop and is rejected.
func (s *CategoryService) guardAgainstCycle(id, proposedParent uint) error {
	if proposedParent == id {
		return ErrCategoryCycle
	}

	current := proposedParent
	for depth := 0; depth < maxTreeDepth; depth++ {
		parent, err := s.repo.FindByID(current)
		if err != nil {
			return fmt.Errorf("category: parent chain at %d: %w", current, err)
		}
		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == id {
			return ErrCategoryCycle
		}
		current = *parent.ParentID
	}
	return ErrCategoryCycle
}

// Breadcrumb returns the chain from the root down to id. Safe on any tree
// the write guard has accepted.
func (s *CategoryService) Breadcrumb(id uint) ([]models.Category, error) {
	var chain []models.Category

	current := id
	for depth := 0; depth < maxTreeDepth; depth++ {
		c, err := s.repo.FindByID(current)
		if err != nil {
			return nil, err
		}
		chain = append([]models.Category{c}, chain...)
		if c.ParentID == nil {
			return chain, nil
		}
		current = *c.ParentID
	}
	return nil, ErrCategoryCycle
}
