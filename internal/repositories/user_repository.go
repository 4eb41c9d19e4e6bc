package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"taskmate/internal/models"
)

type UserRepository interface {
	// FindByID returns nil without error when the user does not exist.
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, telegram_id, first_name, last_name, username, language, timezone, preferences
	FROM users WHERE id = $1`
	user := &models.User{}
	var (
		firstName, lastName, username, language, timezone sql.NullString
		prefs                                             []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.TelegramID, &firstName, &lastName, &username,
		&language, &timezone, &prefs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	user.FirstName = firstName.String
	user.LastName = lastName.String
	user.Username = username.String
	user.Language = language.String
	user.Timezone = timezone.String
	if len(prefs) > 0 {
		// A malformed preferences blob is not fatal; the defaults apply.
		_ = json.Unmarshal(prefs, &user.Preferences)
	}
	return user, nil
}
