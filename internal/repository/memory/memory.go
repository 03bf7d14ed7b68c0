// Package memory keeps every aggregate in process memory. It backs the
// development mode and service tests, and honours the same contract as the
// postgres package: NotFound on missing ids, Conflict on duplicate
// vocabulary, embedded objects copied with their parent.
package memory

import (
	"context"
	"sort"
	"sync"

	"glossa/internal/domain"
	"glossa/internal/repository"

	"github.com/google/uuid"
)

// DB implements every repository interface
type DB struct {
	mu sync.RWMutex

	users        map[uuid.UUID]domain.User
	suggestions  map[uuid.UUID]domain.Suggestion
	vocabulary   map[uuid.UUID]domain.Vocabulary
	vocabKeys    map[string]uuid.UUID
	translations map[uuid.UUID]domain.TranslationAccepted
	votes        map[uuid.UUID]domain.Vote
	suggested    []domain.SuggestedTranslation
	userTrans    []domain.UserTranslation
	dialogs      map[uuid.UUID]domain.Dialog
	messages     map[uuid.UUID]domain.Message
	referrals    []domain.Referral
	reports      []domain.Report
	levels       map[uuid.UUID]domain.Level
	drillWords   []domain.DrillWord
	tests        map[uuid.UUID]domain.Test
	questions    map[uuid.UUID]domain.Question
	progress     map[[2]uuid.UUID]domain.Progress
	actions      []domain.TelegramUserAction
}

func New() *DB {
	return &DB{
		users:        make(map[uuid.UUID]domain.User),
		suggestions:  make(map[uuid.UUID]domain.Suggestion),
		vocabulary:   make(map[uuid.UUID]domain.Vocabulary),
		vocabKeys:    make(map[string]uuid.UUID),
		translations: make(map[uuid.UUID]domain.TranslationAccepted),
		votes:        make(map[uuid.UUID]domain.Vote),
		dialogs:      make(map[uuid.UUID]domain.Dialog),
		messages:     make(map[uuid.UUID]domain.Message),
		levels:       make(map[uuid.UUID]domain.Level),
		tests:        make(map[uuid.UUID]domain.Test),
		questions:    make(map[uuid.UUID]domain.Question),
		progress:     make(map[[2]uuid.UUID]domain.Progress),
	}
}

// NewStore returns a repository.Store backed by a fresh DB
func NewStore() *repository.Store {
	return New().Store()
}

// Store exposes db through the repository interfaces
func (db *DB) Store() *repository.Store {
	return &repository.Store{
		Users:        db,
		Suggestions:  db,
		Vocabulary:   db,
		Translations: db,
		Dialogs:      db,
		Community:    db,
		Quiz:         db,
		Actions:      db,
	}
}

func notFound(kind domain.Kind, id uuid.UUID) error {
	return domain.NewNotFoundError(domain.NewRef(kind, id))
}

func cloneRefs(refs []domain.Ref) []domain.Ref {
	if refs == nil {
		return nil
	}
	return append([]domain.Ref(nil), refs...)
}

// Users

func (db *DB) EnsureUser(_ context.Context, telegramID int64, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for id, u := range db.users {
		if u.TelegramID == telegramID {
			if username != "" && u.Username != username {
				u.Username = username
				db.users[id] = u
			}
			return &u, nil
		}
	}

	u := domain.User{
		ID:         domain.NewID(),
		TelegramID: telegramID,
		Username:   username,
		Role:       domain.RoleUser,
		CreatedAt:  domain.Now(),
	}
	db.users[u.ID] = u
	return &u, nil
}

func (db *DB) GetUser(_ context.Context, id uuid.UUID) (*domain.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	u, ok := db.users[id]
	if !ok {
		return nil, notFound(domain.KindUser, id)
	}
	return &u, nil
}

func (db *DB) GetUserByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, u := range db.users {
		if u.TelegramID == telegramID {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (db *DB) SetRole(_ context.Context, id uuid.UUID, role domain.Role) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[id]
	if !ok {
		return notFound(domain.KindUser, id)
	}
	u.Role = role
	db.users[id] = u
	return nil
}

// DeleteUser exists for tests that need dangling references
func (db *DB) DeleteUser(id uuid.UUID) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.users, id)
}

// Suggestions

func copySuggestion(s domain.Suggestion) domain.Suggestion {
	s.Contributors = cloneRefs(s.Contributors)
	return s
}

func (db *DB) CreateSuggestion(_ context.Context, s *domain.Suggestion) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.suggestions[s.ID] = copySuggestion(*s)
	return nil
}

func (db *DB) GetSuggestion(_ context.Context, id uuid.UUID) (*domain.Suggestion, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	s, ok := db.suggestions[id]
	if !ok {
		return nil, notFound(domain.KindSuggestion, id)
	}
	s = copySuggestion(s)
	return &s, nil
}

func (db *DB) UpdateSuggestion(_ context.Context, s *domain.Suggestion) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.suggestions[s.ID]; !ok {
		return notFound(domain.KindSuggestion, s.ID)
	}
	db.suggestions[s.ID] = copySuggestion(*s)
	return nil
}

func (db *DB) filterSuggestions(status domain.Status) []domain.Suggestion {
	var out []domain.Suggestion
	for _, s := range db.suggestions {
		if status == "" || s.Status == status {
			out = append(out, copySuggestion(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (db *DB) ListSuggestions(_ context.Context, status domain.Status, limit, offset int) ([]domain.Suggestion, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return page(db.filterSuggestions(status), limit, offset), nil
}

func (db *DB) CountSuggestions(_ context.Context, status domain.Status) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.filterSuggestions(status)), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Vocabulary

func copyVocabulary(v domain.Vocabulary) domain.Vocabulary {
	v.Contributors = cloneRefs(v.Contributors)
	v.Translations = cloneRefs(v.Translations)
	return v
}

func (db *DB) CreateVocabulary(_ context.Context, v *domain.Vocabulary) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := v.UniqueKey()
	if _, exists := db.vocabKeys[key]; exists {
		return domain.NewConflictError(domain.KindVocabulary, key)
	}
	db.vocabKeys[key] = v.ID
	db.vocabulary[v.ID] = copyVocabulary(*v)
	return nil
}

func (db *DB) GetVocabulary(_ context.Context, id uuid.UUID) (*domain.Vocabulary, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	v, ok := db.vocabulary[id]
	if !ok {
		return nil, notFound(domain.KindVocabulary, id)
	}
	v = copyVocabulary(v)
	return &v, nil
}

func (db *DB) UpdateVocabulary(_ context.Context, v *domain.Vocabulary) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	old, ok := db.vocabulary[v.ID]
	if !ok {
		return notFound(domain.KindVocabulary, v.ID)
	}
	if key := v.UniqueKey(); key != old.UniqueKey() {
		if _, exists := db.vocabKeys[key]; exists {
			return domain.NewConflictError(domain.KindVocabulary, key)
		}
		delete(db.vocabKeys, old.UniqueKey())
		db.vocabKeys[key] = v.ID
	}
	db.vocabulary[v.ID] = copyVocabulary(*v)
	return nil
}

func (db *DB) FindVocabulary(_ context.Context, text, language string) (*domain.Vocabulary, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	id, ok := db.vocabKeys[domain.VocabularyKey(text, language)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	v := copyVocabulary(db.vocabulary[id])
	return &v, nil
}

func (db *DB) ListVocabulary(_ context.Context, limit, offset int) ([]domain.Vocabulary, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]domain.Vocabulary, 0, len(db.vocabulary))
	for _, v := range db.vocabulary {
		out = append(out, copyVocabulary(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// Translations

func (db *DB) CreateTranslation(_ context.Context, t *domain.TranslationAccepted) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.translations[t.ID] = *t.Clone()
	return nil
}

func (db *DB) GetTranslation(_ context.Context, id uuid.UUID) (*domain.TranslationAccepted, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.translations[id]
	if !ok {
		return nil, notFound(domain.KindTranslation, id)
	}
	return t.Clone(), nil
}

func (db *DB) AddVote(_ context.Context, v *domain.Vote) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	t, ok := db.translations[v.Translation.ID]
	if !ok {
		return notFound(domain.KindTranslation, v.Translation.ID)
	}
	db.votes[v.ID] = *v
	c := t.Clone()
	if err := c.AddVote(v.Ref()); err != nil {
		return err
	}
	db.translations[t.ID] = *c
	return nil
}

func (db *DB) GetVote(_ context.Context, id uuid.UUID) (*domain.Vote, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	v, ok := db.votes[id]
	if !ok {
		return nil, notFound(domain.KindVote, id)
	}
	return &v, nil
}

func (db *DB) CreateSuggestedTranslation(_ context.Context, st *domain.SuggestedTranslation) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.suggested = append(db.suggested, *st)
	return nil
}

func (db *DB) ListSuggestedTranslations(_ context.Context, suggestionID uuid.UUID) ([]domain.SuggestedTranslation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []domain.SuggestedTranslation
	for _, st := range db.suggested {
		if st.OriginalText.ID == suggestionID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (db *DB) RecordUserTranslation(_ context.Context, ut *domain.UserTranslation) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.userTrans = append(db.userTrans, *ut)
	return nil
}

func (db *DB) ListUserTranslations(_ context.Context, userID uuid.UUID) ([]domain.UserTranslation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []domain.UserTranslation
	for _, ut := range db.userTrans {
		if ut.User.ID == userID {
			out = append(out, ut)
		}
	}
	return out, nil
}

// Dialogs

func (db *DB) CreateDialog(_ context.Context, d *domain.Dialog) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.dialogs[d.ID] = *d.Clone()
	return nil
}

func (db *DB) GetDialog(_ context.Context, id uuid.UUID) (*domain.Dialog, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	d, ok := db.dialogs[id]
	if !ok {
		return nil, notFound(domain.KindDialog, id)
	}
	return d.Clone(), nil
}

func (db *DB) UpdateDialog(_ context.Context, d *domain.Dialog) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.dialogs[d.ID]; !ok {
		return notFound(domain.KindDialog, d.ID)
	}
	db.dialogs[d.ID] = *d.Clone()
	return nil
}

// Community

func (db *DB) CreateMessage(_ context.Context, m *domain.Message) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.messages[m.ID] = *m
	return nil
}

func (db *DB) GetMessage(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	m, ok := db.messages[id]
	if !ok {
		return nil, notFound(domain.KindMessage, id)
	}
	return &m, nil
}

func (db *DB) MarkMessageRead(_ context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	m, ok := db.messages[id]
	if !ok {
		return notFound(domain.KindMessage, id)
	}
	m.IsRead = true
	db.messages[id] = m
	return nil
}

func (db *DB) ListConversation(_ context.Context, a, b uuid.UUID, limit int) ([]domain.Message, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []domain.Message
	for _, m := range db.messages {
		if (m.Sender.ID == a && m.Recipient.ID == b) || (m.Sender.ID == b && m.Recipient.ID == a) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (db *DB) CreateReferral(_ context.Context, r *domain.Referral) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.referrals = append(db.referrals, *r)
	return nil
}

func (db *DB) GetReferral(_ context.Context, id uuid.UUID) (*domain.Referral, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, r := range db.referrals {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, notFound(domain.KindReferral, id)
}

func (db *DB) ListReferrals(_ context.Context, referringID uuid.UUID) ([]domain.Referral, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []domain.Referral
	for _, r := range db.referrals {
		if r.Referring.ID == referringID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (db *DB) CreateReport(_ context.Context, r *domain.Report) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.reports = append(db.reports, *r)
	return nil
}

func (db *DB) GetReport(_ context.Context, id uuid.UUID) (*domain.Report, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, r := range db.reports {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, notFound(domain.KindReport, id)
}

func (db *DB) ListReportsAgainst(_ context.Context, reportedID uuid.UUID) ([]domain.Report, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []domain.Report
	for _, r := range db.reports {
		if r.ReportedUser.ID == reportedID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Quiz

func (db *DB) CreateLevel(_ context.Context, l *domain.Level) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.levels[l.ID] = *l
	return nil
}

func (db *DB) GetLevel(_ context.Context, id uuid.UUID) (*domain.Level, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	l, ok := db.levels[id]
	if !ok {
		return nil, notFound(domain.KindLevel, id)
	}
	return &l, nil
}

func (db *DB) CreateDrillWord(_ context.Context, w *domain.DrillWord) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.drillWords = append(db.drillWords, *w)
	return nil
}

func (db *DB) ListDrillWords(_ context.Context, levelID uuid.UUID) ([]domain.DrillWord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []domain.DrillWord
	for _, w := range db.drillWords {
		if w.Level.ID == levelID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (db *DB) CreateTest(_ context.Context, t *domain.Test) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tests[t.ID] = *t
	return nil
}

func (db *DB) GetTest(_ context.Context, id uuid.UUID) (*domain.Test, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tests[id]
	if !ok {
		return nil, notFound(domain.KindTest, id)
	}
	return &t, nil
}

func (db *DB) ListTests(_ context.Context) ([]domain.Test, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]domain.Test, 0, len(db.tests))
	for _, t := range db.tests {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func copyQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

func (db *DB) CreateQuestion(_ context.Context, q *domain.Question) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.questions[q.ID] = copyQuestion(*q)
	return nil
}

func (db *DB) GetQuestion(_ context.Context, id uuid.UUID) (*domain.Question, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	q, ok := db.questions[id]
	if !ok {
		return nil, notFound(domain.KindQuestion, id)
	}
	q = copyQuestion(q)
	return &q, nil
}

func (db *DB) ListQuestions(_ context.Context, testID uuid.UUID) ([]domain.Question, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []domain.Question
	for _, q := range db.questions {
		if q.Test.ID == testID {
			out = append(out, copyQuestion(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out, nil
}

func (db *DB) SaveProgress(_ context.Context, p *domain.Progress) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	c := *p
	c.Answers = append([]domain.Answer(nil), p.Answers...)
	db.progress[[2]uuid.UUID{p.User.ID, p.Test.ID}] = c
	return nil
}

func (db *DB) GetProgress(_ context.Context, userID, testID uuid.UUID) (*domain.Progress, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	p, ok := db.progress[[2]uuid.UUID{userID, testID}]
	if !ok {
		return nil, notFound(domain.KindProgress, testID)
	}
	p.Answers = append([]domain.Answer(nil), p.Answers...)
	return &p, nil
}

// Actions

func (db *DB) LogAction(_ context.Context, a *domain.TelegramUserAction) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.actions = append(db.actions, *a)
	return nil
}

// Actions returns a copy of the audit trail
func (db *DB) Actions() []domain.TelegramUserAction {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]domain.TelegramUserAction(nil), db.actions...)
}
