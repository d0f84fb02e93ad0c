package mailbox

import (
	"fmt"

	"github.com/MrSnakeDoc/showcase/internal/domain"
)

// Source loads and maps the mailbox file in one call
type Source struct {
	loader *Loader
	mapper *Mapper
}

// NewSource wires a loader and a mapper
func NewSource(loader *Loader, mapper *Mapper) *Source {
	return &Source{loader: loader, mapper: mapper}
}

// Emails returns the records of the mailbox file in file order
func (s *Source) Emails() ([]*domain.Email, error) {
	records, err := s.loader.Load()
	if err != nil {
		return nil, err
	}
	emails, err := s.mapper.MapEmails(records)
	if err != nil {
		return nil, fmt.Errorf("invalid mailbox %s: %w", s.loader.Path(), err)
	}
	return emails, nil
}
