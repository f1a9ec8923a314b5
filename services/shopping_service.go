package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"

	"shopping_back_end_go/db"
	"shopping_back_end_go/models"
	"shopping_back_end_go/productimage"
)

// DefaultListName is the name given to a user's auto-created list.
const DefaultListName = "רשימת קניות"

const (
	accessNone  = ""
	accessView  = models.PermissionView
	accessEdit  = models.PermissionEdit
	accessOwner = "owner"
)

const listColumns = "id, name, created_by, archived, created_at"

const itemColumns = "id, list_id, name, category, quantity, checked, created_by, created_at"

type ShoppingService struct {
	db       db.DBTX
	hub      *Hub
	notifier Notifier
}

func NewShoppingService(conn db.DBTX, hub *Hub, notifier Notifier) *ShoppingService {
	if hub == nil {
		hub = NewHub()
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ShoppingService{db: conn, hub: hub, notifier: notifier}
}

func (s *ShoppingService) Hub() *Hub {
	return s.hub
}

// CreateInitialList returns the user's oldest active list, creating one when
// the user has none. The boolean reports whether a list was created.
func (s *ShoppingService) CreateInitialList(ctx context.Context, userID string) (models.ShoppingList, bool, error) {
	list, err := s.activeList(ctx, userID)
	if err == nil {
		return list, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.ShoppingList{}, false, fmt.Errorf("fetch active list for %s: %w", userID, err)
	}

	err = scanList(s.db.QueryRow(ctx,
		`INSERT INTO shopping_lists (name, created_by, archived) VALUES ($1, $2, false)
		RETURNING `+listColumns, DefaultListName, userID), &list)
	if err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation:
			return models.ShoppingList{}, false, ErrUserNotFound
		case pgUniqueViolation:
			// a concurrent request created the active list first
			list, err = s.activeList(ctx, userID)
			if err != nil {
				return models.ShoppingList{}, false, fmt.Errorf("refetch active list for %s: %w", userID, err)
			}
			return list, false, nil
		}
		return models.ShoppingList{}, false, fmt.Errorf("create list for %s: %w", userID, err)
	}

	listsCreated.Inc()
	log.Info().Str("list_id", list.ID).Str("user_id", userID).Msg("created initial shopping list")
	list.Permission = accessOwner
	return list, true, nil
}

func (s *ShoppingService) activeList(ctx context.Context, userID string) (models.ShoppingList, error) {
	var list models.ShoppingList
	err := scanList(s.db.QueryRow(ctx,
		`SELECT `+listColumns+` FROM shopping_lists
		WHERE created_by = $1 AND archived = false
		ORDER BY created_at ASC LIMIT 1`, userID), &list)
	if err != nil {
		return models.ShoppingList{}, err
	}
	list.Permission = accessOwner
	return list, nil
}

// GetList returns a list the user can at least view.
func (s *ShoppingService) GetList(ctx context.Context, userID, listID string) (models.ShoppingList, error) {
	return s.authorize(ctx, userID, listID, accessView)
}

// ListLists returns the user's active lists followed by active lists shared with them.
func (s *ShoppingService) ListLists(ctx context.Context, userID string) ([]models.ShoppingList, error) {
	rows, err := s.db.Query(ctx,
		`SELECT l.id, l.name, l.created_by, l.archived, l.created_at, 'owner' AS permission
		FROM shopping_lists l
		WHERE l.created_by = $1 AND l.archived = false
		UNION ALL
		SELECT l.id, l.name, l.created_by, l.archived, l.created_at, s.permission
		FROM list_shares s
		JOIN shopping_lists l ON l.id = s.list_id
		WHERE s.shared_with = $1 AND l.archived = false
		ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query lists for %s: %w", userID, err)
	}
	defer rows.Close()

	lists := []models.ShoppingList{}
	for rows.Next() {
		var l models.ShoppingList
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedBy, &l.Archived, &l.CreatedAt, &l.Permission); err != nil {
			return nil, fmt.Errorf("scan list row: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate list rows: %w", err)
	}
	return lists, nil
}

// ArchiveList marks an owned list archived. The next CreateInitialList call
// for the owner creates a fresh list.
func (s *ShoppingService) ArchiveList(ctx context.Context, userID, listID string) (models.ShoppingList, error) {
	list, err := s.authorize(ctx, userID, listID, accessOwner)
	if err != nil {
		return models.ShoppingList{}, err
	}
	if list.Archived {
		return list, nil
	}

	if _, err := s.db.Exec(ctx, `UPDATE shopping_lists SET archived = true WHERE id = $1`, listID); err != nil {
		return models.ShoppingList{}, fmt.Errorf("archive list %s: %w", listID, err)
	}
	list.Archived = true
	s.hub.Publish(listID, Event{Type: EventListArchived})
	return list, nil
}

// FetchItems returns the list's items oldest first.
func (s *ShoppingService) FetchItems(ctx context.Context, userID, listID string) ([]models.ShoppingItem, error) {
	if _, err := s.authorize(ctx, userID, listID, accessView); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+itemColumns+` FROM shopping_items WHERE list_id = $1 ORDER BY created_at ASC`, listID)
	if err != nil {
		return nil, fmt.Errorf("query items of %s: %w", listID, err)
	}
	defer rows.Close()

	items := []models.ShoppingItem{}
	for rows.Next() {
		var item models.ShoppingItem
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}
	return items, nil
}

func (s *ShoppingService) AddItem(ctx context.Context, userID, listID string, req models.NewItemRequest) (models.ShoppingItem, error) {
	if _, err := s.writableList(ctx, userID, listID); err != nil {
		return models.ShoppingItem{}, err
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	var item models.ShoppingItem
	err := scanItem(s.db.QueryRow(ctx,
		`INSERT INTO shopping_items (list_id, name, category, quantity, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+itemColumns, listID, req.Name, req.Category, req.Quantity, userID), &item)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return models.ShoppingItem{}, ErrListNotFound
		}
		return models.ShoppingItem{}, fmt.Errorf("insert item into %s: %w", listID, err)
	}

	itemsAdded.Inc()
	s.hub.Publish(listID, Event{Type: EventItemAdded, Payload: item})
	return item, nil
}

func (s *ShoppingService) SetItemChecked(ctx context.Context, userID, listID, itemID string, checked bool) (models.ShoppingItem, error) {
	if _, err := s.writableList(ctx, userID, listID); err != nil {
		return models.ShoppingItem{}, err
	}

	var item models.ShoppingItem
	err := scanItem(s.db.QueryRow(ctx,
		`UPDATE shopping_items SET checked = $1 WHERE id = $2 AND list_id = $3
		RETURNING `+itemColumns, checked, itemID, listID), &item)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ShoppingItem{}, ErrItemNotFound
		}
		return models.ShoppingItem{}, fmt.Errorf("update item %s: %w", itemID, err)
	}

	s.hub.Publish(listID, Event{Type: EventItemUpdated, Payload: item})
	return item, nil
}

func (s *ShoppingService) DeleteItem(ctx context.Context, userID, listID, itemID string) error {
	if _, err := s.writableList(ctx, userID, listID); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM shopping_items WHERE id = $1 AND list_id = $2`, itemID, listID)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	s.hub.Publish(listID, Event{Type: EventItemDeleted, Payload: map[string]string{"id": itemID}})
	return nil
}

// authorize loads the list and the caller's access level, failing when the
// level is below want. Users with no access at all get ErrListNotFound.
func (s *ShoppingService) authorize(ctx context.Context, userID, listID, want string) (models.ShoppingList, error) {
	var list models.ShoppingList
	err := s.db.QueryRow(ctx,
		`SELECT l.id, l.name, l.created_by, l.archived, l.created_at,
			COALESCE((SELECT s.permission FROM list_shares s
				WHERE s.list_id = l.id AND s.shared_with = $2
				ORDER BY s.permission = 'edit' DESC LIMIT 1), '')
		FROM shopping_lists l WHERE l.id = $1`, listID, userID).
		Scan(&list.ID, &list.Name, &list.CreatedBy, &list.Archived, &list.CreatedAt, &list.Permission)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ShoppingList{}, ErrListNotFound
		}
		return models.ShoppingList{}, fmt.Errorf("load list %s: %w", listID, err)
	}

	if list.CreatedBy == userID {
		list.Permission = accessOwner
	}
	if list.Permission == accessNone {
		return models.ShoppingList{}, ErrListNotFound
	}
	if rank(list.Permission) < rank(want) {
		return models.ShoppingList{}, ErrForbidden
	}
	return list, nil
}

func (s *ShoppingService) writableList(ctx context.Context, userID, listID string) (models.ShoppingList, error) {
	list, err := s.authorize(ctx, userID, listID, accessEdit)
	if err != nil {
		return models.ShoppingList{}, err
	}
	if list.Archived {
		return models.ShoppingList{}, ErrListArchived
	}
	return list, nil
}

func rank(level string) int {
	switch level {
	case accessOwner:
		return 3
	case accessEdit:
		return 2
	case accessView:
		return 1
	}
	return 0
}

func scanList(row pgx.Row, l *models.ShoppingList) error {
	return row.Scan(&l.ID, &l.Name, &l.CreatedBy, &l.Archived, &l.CreatedAt)
}

func scanItem(row pgx.Row, item *models.ShoppingItem) error {
	err := row.Scan(&item.ID, &item.ListID, &item.Name, &item.Category, &item.Quantity,
		&item.Checked, &item.CreatedBy, &item.CreatedAt)
	if err != nil {
		return err
	}
	item.Emoji = productimage.Emoji(item.Name, item.Category)
	return nil
}
