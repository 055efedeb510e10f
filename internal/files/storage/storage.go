// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package storage reads uploaded documents from the blob store.

Keys are forward-slash paths relative to the store root, e.g. "uploads/x.pdf".
A folder key names every object beneath it.

# Backends

  - Local: a directory on the local filesystem, opened through [os.Root] so keys
    cannot escape it.
  - S3: an S3-compatible bucket (AWS, MinIO, R2) through aws-sdk-go-v2.
*/
package storage

import (
	"context"
	"io"
	"mime"
	"path"
)

// Object is an open blob. The caller must close Body.
type Object struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.ReadCloser
}

// Entry is one file beneath a folder key.
type Entry struct {
	// Path is relative to the folder, with forward slashes.
	Path string
	Size int64
}

// Store is the read side of the blob store used by download redemption.
type Store interface {

	/*
		Open starts reading the object stored under key.

		Returns:
		  - *Object: Open object, Body must be closed
		  - error: apperr.NotFound("File") when nothing is stored under key
	*/
	Open(context context.Context, key string) (*Object, error)

	/*
		List returns every file beneath a folder key, sorted by path.

		Returns:
		  - []Entry: Files relative to the folder
		  - error: apperr.NotFound("Folder") when the folder is missing or empty
	*/
	List(context context.Context, folder string) ([]Entry, error)
}

// contentType guesses the MIME type from the key's extension.
func contentType(key string) string {
	if guessed := mime.TypeByExtension(path.Ext(key)); guessed != "" {
		return guessed
	}
	return "application/octet-stream"
}
