package sql

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/model"
	"github.com/rs/zerolog"
)

type postService struct {
	*sqlx.DB
	log zerolog.Logger
}

func NewPostService(db *sqlx.DB) *postService {
	return &postService{
		DB:  db,
		log: logger.New("postService"),
	}
}

func (db *postService) Save(post *model.Post) error {
	const query = `INSERT INTO posts (id, urn, author_urn, commentary, visibility) VALUES (?, ?, ?, ?, ?)`
	_, err := db.Exec(query, post.ID, post.Urn, post.AuthorUrn, post.Commentary, post.Visibility)
	return err
}

func (db *postService) Latest(authorUrn string) (model.Post, error) {
	const query = `SELECT id, urn, author_urn, commentary, visibility, created_at FROM posts
	WHERE author_urn = ?
	ORDER BY created_at DESC, id DESC
	LIMIT 1`
	var post model.Post
	err := db.Get(&post, query, authorUrn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return post, model.ErrNotFound
		}
		return post, err
	}
	return post, nil
}

func (db *postService) IsDuplicate(authorUrn, commentary string) (bool, error) {
	latest, err := db.Latest(authorUrn)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return latest.Commentary == commentary, nil
}

func (db *postService) History(authorUrn string, limit int) ([]model.Post, error) {
	const query = `SELECT id, urn, author_urn, commentary, visibility, created_at FROM posts
	WHERE author_urn = ?
	ORDER BY created_at DESC, id DESC
	LIMIT ?`
	var posts []model.Post
	err := db.Select(&posts, query, authorUrn, limit)
	return posts, err
}
