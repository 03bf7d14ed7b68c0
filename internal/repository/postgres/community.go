package postgres

import (
	"context"
	"database/sql"

	"glossa/internal/domain"

	"github.com/google/uuid"
)

// CommunityRepo implements repository.CommunityRepository
type CommunityRepo struct {
	db *sql.DB
}

// NewCommunityRepo creates a new community repository
func NewCommunityRepo(db *sql.DB) *CommunityRepo {
	return &CommunityRepo{db: db}
}

const messageColumns = `id, sender_id, recipient_id, content, sent_at, is_read`

func scanMessage(row rowScanner) (*domain.Message, error) {
	var (
		m                 domain.Message
		sender, recipient uuid.UUID
	)
	if err := row.Scan(&m.ID, &sender, &recipient, &m.Content, &m.Timestamp, &m.IsRead); err != nil {
		return nil, err
	}
	m.Sender = domain.UserRef(sender)
	m.Recipient = domain.UserRef(recipient)
	inUTC(&m.Timestamp)
	return &m, nil
}

// CreateMessage inserts a direct message
func (r *CommunityRepo) CreateMessage(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (` + messageColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query, m.ID, m.Sender.ID, m.Recipient.ID, m.Content, m.Timestamp, m.IsRead)
	return err
}

// GetMessage returns the message by id
func (r *CommunityRepo) GetMessage(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, domain.KindMessage, id)
	}
	return m, nil
}

// MarkMessageRead flags the message as read
func (r *CommunityRepo) MarkMessageRead(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res, domain.KindMessage, id)
}

// ListConversation returns the latest limit messages exchanged between a
// and b in chronological order
func (r *CommunityRepo) ListConversation(ctx context.Context, a, b uuid.UUID, limit int) ([]domain.Message, error) {
	query := `
		SELECT ` + messageColumns + ` FROM (
			SELECT ` + messageColumns + `
			FROM messages
			WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
			ORDER BY sent_at DESC
			LIMIT NULLIF($3, 0)
		) latest
		ORDER BY sent_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, a, b, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}

	return out, rows.Err()
}

const referralColumns = `id, referring_user_id, referred_user_id, date`

func scanReferral(row rowScanner) (*domain.Referral, error) {
	var (
		ref                 domain.Referral
		referring, referred uuid.UUID
	)
	if err := row.Scan(&ref.ID, &referring, &referred, &ref.Date); err != nil {
		return nil, err
	}
	ref.Referring = domain.UserRef(referring)
	ref.Referred = domain.UserRef(referred)
	inUTC(&ref.Date)
	return &ref, nil
}

// CreateReferral inserts a referral
func (r *CommunityRepo) CreateReferral(ctx context.Context, ref *domain.Referral) error {
	query := `
		INSERT INTO referrals (` + referralColumns + `)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, ref.ID, ref.Referring.ID, ref.Referred.ID, ref.Date)
	return err
}

// GetReferral returns the referral by id
func (r *CommunityRepo) GetReferral(ctx context.Context, id uuid.UUID) (*domain.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE id = $1`

	ref, err := scanReferral(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, domain.KindReferral, id)
	}
	return ref, nil
}

// ListReferrals returns the referrals made by a user
func (r *CommunityRepo) ListReferrals(ctx context.Context, referringID uuid.UUID) ([]domain.Referral, error) {
	query := `
		SELECT ` + referralColumns + `
		FROM referrals
		WHERE referring_user_id = $1
		ORDER BY date ASC
	`
	rows, err := r.db.QueryContext(ctx, query, referringID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ref)
	}

	return out, rows.Err()
}

const reportColumns = `id, user_id, reported_user_id, reason, description, created_at, updated_at`

func scanReport(row rowScanner) (*domain.Report, error) {
	var (
		rep            domain.Report
		user, reported uuid.UUID
	)
	if err := row.Scan(&rep.ID, &user, &reported, &rep.Reason, &rep.Description, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
		return nil, err
	}
	rep.User = domain.UserRef(user)
	rep.ReportedUser = domain.UserRef(reported)
	inUTC(&rep.CreatedAt, &rep.UpdatedAt)
	return &rep, nil
}

// CreateReport inserts a user report
func (r *CommunityRepo) CreateReport(ctx context.Context, rep *domain.Report) error {
	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		rep.ID, rep.User.ID, rep.ReportedUser.ID, rep.Reason, rep.Description, rep.CreatedAt, rep.UpdatedAt,
	)
	return err
}

// GetReport returns the report by id
func (r *CommunityRepo) GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, domain.KindReport, id)
	}
	return rep, nil
}

// ListReportsAgainst returns the reports filed against a user
func (r *CommunityRepo) ListReportsAgainst(ctx context.Context, reportedID uuid.UUID) ([]domain.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE reported_user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, reportedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}

	return out, rows.Err()
}
