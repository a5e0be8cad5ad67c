package service

import (
	"context"
	"database/sql"
	"errors"

	"peopleapi/internal/model"
	"peopleapi/internal/repository"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("person not found")
)

// PeopleList is the list response body.
type PeopleList struct {
	People []model.Person `json:"people"`
}

// PersonService defines the read use cases for people.
type PersonService interface {
	// List returns the first repository.ListLimit people ordered by name.
	List(ctx context.Context) (*PeopleList, error)

	// Get returns a single person by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Person, error)
}

type personService struct {
	repo repository.PersonRepository
}

// NewPersonService constructs a new PersonService.
func NewPersonService(repo repository.PersonRepository) PersonService {
	return &personService{repo: repo}
}

func (s *personService) List(ctx context.Context) (*PeopleList, error) {
	people, err := s.repo.List(ctx, repository.ListLimit)
	if err != nil {
		return nil, err
	}
	if people == nil {
		people = make([]model.Person, 0)
	}
	return &PeopleList{People: people}, nil
}

func (s *personService) Get(ctx context.Context, id string) (*model.Person, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
