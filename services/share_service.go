package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"

	"shopping_back_end_go/models"
)

const shareColumns = "id, list_id, shared_with, shared_by, permission, created_at"

// ShareList grants permission on an owned list to the user whose e-mail or
// username matches identifier. The existence check and the insert are two
// separate statements; a concurrent duplicate request can slip between them.
func (s *ShoppingService) ShareList(ctx context.Context, ownerID, listID, identifier, permission string) (models.ListShare, error) {
	if permission != models.PermissionView && permission != models.PermissionEdit {
		return models.ListShare{}, ErrInvalidPermission
	}

	list, err := s.authorize(ctx, ownerID, listID, accessOwner)
	if err != nil {
		return models.ListShare{}, err
	}
	if list.Archived {
		return models.ListShare{}, ErrListArchived
	}

	invitee, err := s.findProfile(ctx, identifier)
	if err != nil {
		return models.ListShare{}, err
	}
	if invitee.ID == ownerID {
		return models.ListShare{}, ErrSelfShare
	}

	var existingID string
	err = s.db.QueryRow(ctx,
		`SELECT id FROM list_shares WHERE list_id = $1 AND shared_with = $2 LIMIT 1`,
		listID, invitee.ID).Scan(&existingID)
	if err == nil {
		return models.ListShare{}, ErrAlreadyShared
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.ListShare{}, fmt.Errorf("check existing share: %w", err)
	}

	var share models.ListShare
	err = scanShare(s.db.QueryRow(ctx,
		`INSERT INTO list_shares (list_id, shared_with, shared_by, permission)
		VALUES ($1, $2, $3, $4)
		RETURNING `+shareColumns, listID, invitee.ID, ownerID, permission), &share)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return models.ListShare{}, ErrAlreadyShared
		}
		return models.ListShare{}, fmt.Errorf("insert share: %w", err)
	}

	sharesCreated.WithLabelValues(permission).Inc()
	log.Info().Str("list_id", listID).Str("shared_with", invitee.ID).Str("permission", permission).Msg("list shared")
	s.hub.Publish(listID, Event{Type: EventListShared, Payload: share})

	notice := ShareNotice{
		RecipientEmail: invitee.Email,
		RecipientName:  displayName(invitee),
		ListName:       list.Name,
		Permission:     permission,
	}
	if err := s.notifier.NotifyShare(ctx, notice); err != nil {
		notificationFailures.Inc()
		log.Error().Err(err).Str("list_id", listID).Str("shared_with", invitee.ID).Msg("share notification failed")
	}
	return share, nil
}

// ListShares returns the shares of an owned list, oldest first.
func (s *ShoppingService) ListShares(ctx context.Context, ownerID, listID string) ([]models.ListShare, error) {
	if _, err := s.authorize(ctx, ownerID, listID, accessOwner); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+shareColumns+` FROM list_shares WHERE list_id = $1 ORDER BY created_at ASC`, listID)
	if err != nil {
		return nil, fmt.Errorf("query shares of %s: %w", listID, err)
	}
	defer rows.Close()

	shares := []models.ListShare{}
	for rows.Next() {
		var share models.ListShare
		if err := scanShare(rows, &share); err != nil {
			return nil, fmt.Errorf("scan share row: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate share rows: %w", err)
	}
	return shares, nil
}

func (s *ShoppingService) RevokeShare(ctx context.Context, ownerID, listID, shareID string) error {
	if _, err := s.authorize(ctx, ownerID, listID, accessOwner); err != nil {
		return err
	}

	var sharedWith string
	err := s.db.QueryRow(ctx,
		`DELETE FROM list_shares WHERE id = $1 AND list_id = $2 RETURNING shared_with`,
		shareID, listID).Scan(&sharedWith)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrShareNotFound
		}
		return fmt.Errorf("delete share %s: %w", shareID, err)
	}

	// live subscriptions were authorized under the revoked share
	s.hub.DropUser(listID, sharedWith)
	log.Info().Str("list_id", listID).Str("shared_with", sharedWith).Msg("share revoked")
	return nil
}

// SharedWithMe returns every list shared with the user, archived ones included.
func (s *ShoppingService) SharedWithMe(ctx context.Context, userID string) ([]models.SharedList, error) {
	rows, err := s.db.Query(ctx,
		`SELECT l.id, l.name, l.created_by, l.archived, l.created_at, s.permission, s.shared_by
		FROM list_shares s
		JOIN shopping_lists l ON l.id = s.list_id
		WHERE s.shared_with = $1
		ORDER BY s.created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query lists shared with %s: %w", userID, err)
	}
	defer rows.Close()

	lists := []models.SharedList{}
	for rows.Next() {
		var l models.SharedList
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedBy, &l.Archived, &l.CreatedAt, &l.Permission, &l.SharedBy); err != nil {
			return nil, fmt.Errorf("scan shared list row: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shared list rows: %w", err)
	}
	return lists, nil
}

func (s *ShoppingService) findProfile(ctx context.Context, identifier string) (models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRow(ctx,
		`SELECT id, email, username, display_name FROM profiles
		WHERE LOWER(email) = LOWER($1) OR LOWER(username) = LOWER($1)
		ORDER BY (LOWER(email) = LOWER($1)) DESC
		LIMIT 1`, identifier).Scan(&p.ID, &p.Email, &p.Username, &p.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, ErrUserNotFound
		}
		return models.Profile{}, fmt.Errorf("find profile: %w", err)
	}
	return p, nil
}

func scanShare(row pgx.Row, sh *models.ListShare) error {
	return row.Scan(&sh.ID, &sh.ListID, &sh.SharedWith, &sh.SharedBy, &sh.Permission, &sh.CreatedAt)
}

func displayName(p models.Profile) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}
