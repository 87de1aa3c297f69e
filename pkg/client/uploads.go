package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// UploadResponse is returned by Create.  Upload is nil when the server
// received no file and answered with the awaiting-input snapshot.
type UploadResponse struct {
	Upload   *UploadMeta `json:"upload,omitempty"`
	Snapshot *Snapshot   `json:"snapshot"`
}

// UploadsClient manages uploaded datasets.
type UploadsClient struct {
	client *Client
}

// Create uploads a CSV.  encoding may be empty to use the server default.
func (u *UploadsClient) Create(ctx context.Context, filename string, r io.Reader, encoding string) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "build upload form")
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "read upload").WithDetail(filename)
	}
	if encoding != "" {
		if err := mw.WriteField("encoding", encoding); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "build upload form")
		}
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "build upload form")
	}

	var resp UploadResponse
	err = u.client.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/v1/uploads",
		contentType: mw.FormDataContentType(),
		body:        buf.Bytes(),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns the metadata of an upload.
func (u *UploadsClient) Get(ctx context.Context, id string) (*UploadMeta, error) {
	var meta UploadMeta
	if err := u.client.get(ctx, uploadPath(id), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Dashboard computes the dashboard of an upload for q.
func (u *UploadsClient) Dashboard(ctx context.Context, id string, q Query) (*Snapshot, error) {
	var snap Snapshot
	if err := u.client.post(ctx, uploadPath(id, "dashboard"), q, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete removes an upload before its TTL.
func (u *UploadsClient) Delete(ctx context.Context, id string) error {
	return u.client.delete(ctx, uploadPath(id))
}

//Personal.AI order the ending
