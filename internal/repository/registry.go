package repository

import (
	"context"
	"errors"
	"fmt"

	"glossa/internal/domain"

	"github.com/google/uuid"
)

// Resolver loads the entity behind an id of one kind. It must return an
// error matching domain.ErrNotFound when the entity is absent.
type Resolver func(ctx context.Context, id uuid.UUID) (any, error)

// Registry resolves references through resolvers registered per kind
type Registry struct {
	resolvers map[domain.Kind]Resolver
}

func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[domain.Kind]Resolver)}
}

// Register binds a typed getter to kind
func Register[T any](r *Registry, kind domain.Kind, get func(ctx context.Context, id uuid.UUID) (T, error)) {
	r.resolvers[kind] = func(ctx context.Context, id uuid.UUID) (any, error) {
		return get(ctx, id)
	}
}

// NewStoreRegistry registers every aggregate kind served by store.
// Suggested translations, user translations, progress and drill words are
// child records reached through their parent and stay unresolvable.
func NewStoreRegistry(s *Store) *Registry {
	r := NewRegistry()
	Register(r, domain.KindUser, s.Users.GetUser)
	Register(r, domain.KindSuggestion, s.Suggestions.GetSuggestion)
	Register(r, domain.KindVocabulary, s.Vocabulary.GetVocabulary)
	Register(r, domain.KindTranslation, s.Translations.GetTranslation)
	Register(r, domain.KindVote, s.Translations.GetVote)
	Register(r, domain.KindDialog, s.Dialogs.GetDialog)
	Register(r, domain.KindMessage, s.Community.GetMessage)
	Register(r, domain.KindReferral, s.Community.GetReferral)
	Register(r, domain.KindReport, s.Community.GetReport)
	Register(r, domain.KindLevel, s.Quiz.GetLevel)
	Register(r, domain.KindTest, s.Quiz.GetTest)
	Register(r, domain.KindQuestion, s.Quiz.GetQuestion)
	return r
}

// Resolve loads the entity ref points to
func (r *Registry) Resolve(ctx context.Context, ref domain.Ref) (any, error) {
	if ref.IsZero() {
		return nil, domain.NewValidationError("ref", "is empty")
	}
	resolve, ok := r.resolvers[ref.Kind]
	if !ok {
		return nil, domain.NewValidationError("ref", fmt.Sprintf("kind %q is not resolvable", ref.Kind))
	}

	entity, err := resolve(ctx, ref.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFoundError(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	return entity, nil
}

// Check verifies that every ref resolves. All dangling references are
// reported together.
func (r *Registry) Check(ctx context.Context, refs ...domain.Ref) error {
	return r.ResolveAll(ctx, refs, nil)
}

// ResolveAll resolves refs in order, calling found for each hit, and
// returns every failure joined into one error.
func (r *Registry) ResolveAll(ctx context.Context, refs []domain.Ref, found func(domain.Ref, any)) error {
	var errs []error
	for _, ref := range refs {
		entity, err := r.Resolve(ctx, ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if found != nil {
			found(ref, entity)
		}
	}
	return errors.Join(errs...)
}

// ResolveAs resolves ref and asserts the concrete type
func ResolveAs[T any](ctx context.Context, r *Registry, ref domain.Ref) (T, error) {
	var zero T
	entity, err := r.Resolve(ctx, ref)
	if err != nil {
		return zero, err
	}
	typed, ok := entity.(T)
	if !ok {
		return zero, fmt.Errorf("resolve %s: unexpected type %T", ref, entity)
	}
	return typed, nil
}

// Dangling extracts every NotFoundError from err
func Dangling(err error) []domain.Ref {
	refs, _ := Partition(err)
	return refs
}

// Partition splits a joined resolve error into the dangling references and
// every other failure, such as a storage outage or an unresolvable kind.
func Partition(err error) ([]domain.Ref, []error) {
	if err == nil {
		return nil, nil
	}

	var (
		refs     []domain.Ref
		failures []error
	)
	var walk func(error)
	walk = func(e error) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		var nf *domain.NotFoundError
		if errors.As(e, &nf) {
			refs = append(refs, nf.Ref)
			return
		}
		failures = append(failures, e)
	}
	walk(err)
	return refs, failures
}
