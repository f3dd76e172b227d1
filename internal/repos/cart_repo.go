package repos

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"cozyoven/internal/domain"
	applog "cozyoven/internal/log"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// InsertLine stores a line as its own row; two combos on the same product never merge.
func (r *CartRepo) InsertLine(cartID string, line domain.CartLine) (string, error) {
	sel, err := json.Marshal(line.Selections)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	qty := line.Quantity
	if qty < 1 {
		qty = 1
	}
	if _, err := r.db.Exec(`
		INSERT INTO cart_items(id,cart_id,product_id,name,description,qty,price,selections_json,created_at)
		VALUES(?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, id, cartID, line.ProductID, line.Name, line.Description, qty, line.Price.StringFixed(2), string(sel)); err != nil {
		return "", err
	}
	if _, err := r.db.Exec(`UPDATE carts SET updated_at = ? WHERE id = ?`, time.Now().Format(time.RFC3339), cartID); err != nil {
		applog.Error(nil, "cart.touch", err, map[string]any{"cart_id": cartID})
	}
	return id, nil
}

type cartLineRow struct {
	domain.CartLine
	SelectionsJSON string `db:"selections_json"`
}

// Lines returns the cart's lines in insertion order with the cart total.
func (r *CartRepo) Lines(cartID string) ([]domain.CartLine, decimal.Decimal, error) {
	var rows []cartLineRow
	if err := r.db.Select(&rows, `
	  SELECT id, product_id, name, COALESCE(description,'') AS description, qty, price,
	         COALESCE(selections_json,'[]') AS selections_json
	  FROM cart_items
	  WHERE cart_id = ?
	  ORDER BY created_at, rowid
	`, cartID); err != nil {
		return nil, decimal.Zero, err
	}
	out := make([]domain.CartLine, 0, len(rows))
	total := decimal.Zero
	for _, row := range rows {
		line := row.CartLine
		if err := json.Unmarshal([]byte(row.SelectionsJSON), &line.Selections); err != nil {
			return nil, decimal.Zero, err
		}
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		out = append(out, line)
	}
	return out, total, nil
}

func (r *CartRepo) RemoveLine(cartID, lineID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND id = ?`, cartID, lineID)
	return err
}

// Clear empties the cart but keeps the cart row for the session.
func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
