// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/medscope/medscope/internal/platform/apperr"
)

// S3Config holds the connection settings of an S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Store serves blobs from an S3-compatible bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

/*
NewS3Store builds an S3 client.

Description: Static credentials are used when both keys are set, otherwise the
default AWS credential chain applies. A custom endpoint switches to path-style
addressing, which MinIO and most S3-compatible servers expect.
*/
func NewS3Store(context context.Context, cfg S3Config) (*S3Store, error) {
	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context, options...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// Open streams the object stored under key.
func (store *S3Store) Open(context context.Context, key string) (*Object, error) {
	name := normalize(key)

	output, err := store.client.GetObject(context, &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, apperr.NotFound("File")
		}
		return nil, fmt.Errorf("storage_s3_get_object_failed: %w", err)
	}

	object := &Object{
		Name:        path.Base(name),
		Size:        aws.ToInt64(output.ContentLength),
		ContentType: aws.ToString(output.ContentType),
		Body:        output.Body,
	}
	if object.ContentType == "" || object.ContentType == "binary/octet-stream" {
		object.ContentType = contentType(name)
	}

	return object, nil
}

// List pages through every object under the folder prefix.
func (store *S3Store) List(context context.Context, folder string) ([]Entry, error) {
	prefix := normalize(folder)
	if prefix == "." {
		prefix = ""
	} else {
		prefix += "/"
	}

	var entries []Entry
	paginator := s3.NewListObjectsV2Paginator(store.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(store.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context)
		if err != nil {
			return nil, fmt.Errorf("storage_s3_list_objects_failed: %w", err)
		}
		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			// Folder placeholders created by consoles end with "/".
			if strings.HasSuffix(key, "/") {
				continue
			}
			entries = append(entries, Entry{
				Path: strings.TrimPrefix(key, prefix),
				Size: aws.ToInt64(object.Size),
			})
		}
	}

	if len(entries) == 0 {
		return nil, apperr.NotFound("Folder")
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}
