// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is a minimal path-style S3 endpoint holding objects in memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	headers map[string]http.Header
}

type listResult struct {
	XMLName     xml.Name `xml:"ListBucketResult"`
	Name        string   `xml:"Name"`
	Prefix      string   `xml:"Prefix"`
	KeyCount    int      `xml:"KeyCount"`
	IsTruncated bool     `xml:"IsTruncated"`
	Contents    []struct {
		Key  string `xml:"Key"`
		Size int    `xml:"Size"`
	} `xml:"Contents"`
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodGet && key == "":
		prefix := r.URL.Query().Get("prefix")
		res := listResult{Name: bucket, Prefix: prefix}
		var keys []string
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			res.Contents = append(res.Contents, struct {
				Key  string `xml:"Key"`
				Size int    `xml:"Size"`
			}{k, len(f.objects[k])})
		}
		res.KeyCount = len(keys)
		w.Header().Set("Content-Type", "application/xml")
		_ = xml.NewEncoder(w).Encode(res)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		f.headers[key] = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		_, _ = w.Write(body)
	case r.Method == http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestClient(t *testing.T) (*Client, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, headers: map[string]http.Header{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(Options{
		Endpoint:  srv.URL + "/",
		Region:    "fsn1",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "madarat",
		Prefix:    "/sitemaps/",
	})
	require.NoError(t, err)
	require.NotNil(t, c)
	return c, fake
}

func TestNew_Disabled(t *testing.T) {
	c, err := New(Options{Endpoint: "https://fsn1.example.com"})
	assert.NoError(t, err)
	assert.Nil(t, c)

	_, err = New(Options{Endpoint: "https://x", AccessKey: "a", SecretKey: "b", Bucket: "c"})
	assert.Error(t, err)
}

func TestClient_PutGetDelete(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	body := []byte(`<?xml version="1.0" encoding="UTF-8"?><urlset/>`)
	require.NoError(t, c.Put(ctx, "sitemap.xml", "text/xml; charset=utf-8", "public, max-age=3600", body))

	assert.Equal(t, body, fake.objects["sitemaps/sitemap.xml"])
	h := fake.headers["sitemaps/sitemap.xml"]
	assert.Equal(t, "text/xml; charset=utf-8", h.Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", h.Get("Cache-Control"))
	assert.Equal(t, "public-read", h.Get("X-Amz-Acl"))

	got, err := c.Get(ctx, "sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, body, got)

	require.NoError(t, c.Delete(ctx, "sitemap.xml"))
	assert.NotContains(t, fake.objects, "sitemaps/sitemap.xml")

	_, err = c.Get(ctx, "sitemap.xml")
	assert.Error(t, err)
}

func TestClient_List(t *testing.T) {
	c, fake := newTestClient(t)
	fake.objects["sitemaps/sitemap-posts.xml"] = []byte("a")
	fake.objects["sitemaps/sitemap-trips-2.xml"] = []byte("b")
	fake.objects["other/readme.txt"] = []byte("c")

	names, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sitemap-posts.xml", "sitemap-trips-2.xml"}, names)
}

func TestClient_FileURL(t *testing.T) {
	c, _ := newTestClient(t)
	assert.True(t, strings.HasSuffix(c.FileURL("sitemap.xml"), "/madarat/sitemaps/sitemap.xml"))

	c.publicURL = "https://cdn.madaratalkon.sa"
	assert.Equal(t, "https://cdn.madaratalkon.sa/sitemaps/sitemap.xml", c.FileURL("sitemap.xml"))
	assert.Equal(t, "sitemaps/a.xml", c.Key("/a.xml"))
}
