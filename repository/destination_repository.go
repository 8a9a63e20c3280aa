package repository

import (
	"database/sql"
	"go-forum-api/model"
)

// IDestinationRepository defines the contract for destination database operations.
type IDestinationRepository interface {
	CreateDestination(destination *model.Destination) error
	GetAllDestinations() ([]*model.Destination, error)
	GetDestinationByID(id int) (*model.Destination, error)
	UpdateDestinationContent(id int, content string) error
	DeleteDestination(id int) error
}

type DestinationRepository struct {
	DB *sql.DB
}

func NewDestinationRepository(db *sql.DB) *DestinationRepository {
	return &DestinationRepository{DB: db}
}

func (r *DestinationRepository) CreateDestination(destination *model.Destination) error {
	query := `INSERT INTO destinations (user_id, name, content) VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.DB.QueryRow(query, destination.UserID, destination.Name, destination.Content).
		Scan(&destination.ID, &destination.CreatedAt)
}

func (r *DestinationRepository) GetAllDestinations() ([]*model.Destination, error) {
	query := `SELECT id, user_id, name, content, created_at FROM destinations ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	destinations := []*model.Destination{}
	for rows.Next() {
		destination := &model.Destination{}
		if err := rows.Scan(&destination.ID, &destination.UserID, &destination.Name, &destination.Content, &destination.CreatedAt); err != nil {
			return nil, err
		}
		destinations = append(destinations, destination)
	}
	return destinations, rows.Err()
}

func (r *DestinationRepository) GetDestinationByID(id int) (*model.Destination, error) {
	destination := &model.Destination{}
	query := `SELECT id, user_id, name, content, created_at FROM destinations WHERE id = $1`
	err := r.DB.QueryRow(query, id).
		Scan(&destination.ID, &destination.UserID, &destination.Name, &destination.Content, &destination.CreatedAt)
	if err != nil {
		return nil, err
	}
	return destination, nil
}

func (r *DestinationRepository) UpdateDestinationContent(id int, content string) error {
	query := `UPDATE destinations SET content = $2 WHERE id = $1`
	_, err := r.DB.Exec(query, id, content)
	return err
}

func (r *DestinationRepository) DeleteDestination(id int) error {
	query := `DELETE FROM destinations WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
