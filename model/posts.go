package model

import "time"

type (
	PostService interface {
		// Save records a published post. ID is an xid GUID assigned by
		// the caller.
		Save(post *Post) error

		// Latest returns the author's most recently recorded post or
		// ErrNotFound.
		Latest(authorUrn string) (Post, error)

		// IsDuplicate reports whether the commentary matches the
		// author's latest published post.
		IsDuplicate(authorUrn, commentary string) (bool, error)

		History(authorUrn string, limit int) ([]Post, error)
	}

	Post struct {
		ID         string    `db:"id"`
		Urn        string    `db:"urn"`
		AuthorUrn  string    `db:"author_urn"`
		Commentary string    `db:"commentary"`
		Visibility string    `db:"visibility"`
		CreatedAt  time.Time `db:"created_at"`
	}
)
