// Package media uploads submission files to Cloudinary and hands back the
// public URLs the persisted rows embed.
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// File is one in-memory upload candidate.
type File struct {
	Name     string
	Contents io.Reader
}

// Uploader streams files to the media store. UploadAll is sequential and
// all-or-nothing: the first failure aborts the batch.
type Uploader interface {
	Upload(ctx context.Context, f File, folder string) (string, error)
	UploadAll(ctx context.Context, files []File, folder string) ([]string, error)
}

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
	// testPrefix redirects uploads under test/ outside production.
	testPrefix bool
}

func NewCloudinaryUploader(cloudinaryURL string, testPrefix bool) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{cld: cld, testPrefix: testPrefix}, nil
}

func (u *CloudinaryUploader) folder(folder string) string {
	folder = SanitizeFolder(folder)
	if u.testPrefix {
		return "test/" + folder
	}
	return folder
}

func (u *CloudinaryUploader) Upload(ctx context.Context, f File, folder string) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, f.Contents, uploader.UploadParams{
		Folder:       u.folder(folder),
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", f.Name, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload %q: %s", f.Name, res.Error.Message)
	}
	return res.SecureURL, nil
}

func (u *CloudinaryUploader) UploadAll(ctx context.Context, files []File, folder string) ([]string, error) {
	return Batch(ctx, u.Upload, files, folder)
}

// UploadFunc uploads one file and returns its public URL.
type UploadFunc func(ctx context.Context, f File, folder string) (string, error)

// Batch runs the uploads sequentially and all-or-nothing: the first failure
// aborts and no URLs are returned, so a row never persists a partial set.
func Batch(ctx context.Context, up UploadFunc, files []File, folder string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for i, f := range files {
		url, err := up(ctx, f, folder)
		if err != nil {
			return nil, fmt.Errorf("batch aborted at file %d of %d: %w", i+1, len(files), err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
