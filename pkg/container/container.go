// Package container is the in-memory working copy of an uploaded map archive.
//
// A Container is owned by a single ingest run. It is not safe for concurrent
// mutation, but concurrent Get/Has calls are fine once no more writes happen.
package container

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// Compression is the method members are written with by Bytes.
type Compression uint16

const (
	Store   Compression = Compression(zip.Store)
	Deflate Compression = Compression(zip.Deflate)
)

// ParseCompression maps a config value to a Compression.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "", "store":
		return Store, nil
	case "deflate":
		return Deflate, nil
	}
	return 0, fmt.Errorf("unsupported compression %q (expected store or deflate)", name)
}

func (c Compression) String() string {
	switch c {
	case Store:
		return "store"
	case Deflate:
		return "deflate"
	}
	return fmt.Sprintf("method(%d)", uint16(c))
}

// Member is a single archive entry.
type Member struct {
	Name     string
	Data     []byte
	Modified time.Time
	Comment  string
}

// IsDir reports whether the member is a directory entry.
func (m Member) IsDir() bool { return strings.HasSuffix(m.Name, "/") }

// Container maps member paths to their content. Lookups are exact and
// case-sensitive; no path cleaning is applied.
type Container struct {
	Comment string

	members []*Member
	index   map[string]*Member
}

// New returns an empty container.
func New() *Container {
	return &Container{index: make(map[string]*Member)}
}

// Load decodes raw as a zip archive and reads every file member into memory.
// A positive maxMemberSize rejects members that inflate beyond it.
func Load(raw []byte, maxMemberSize int64) (*Container, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, errors.Wrap(err, "failed to open zip")
	}

	c := New()
	c.Comment = zr.Comment
	for _, f := range zr.File {
		m := &Member{
			Name:     f.Name,
			Modified: f.Modified,
			Comment:  f.Comment,
		}
		if !m.IsDir() {
			if maxMemberSize > 0 && f.UncompressedSize64 > uint64(maxMemberSize) {
				return nil, fmt.Errorf("member %s is too large (%d bytes)", f.Name, f.UncompressedSize64)
			}
			if m.Data, err = readFile(f, maxMemberSize); err != nil {
				return nil, errors.Wrapf(err, "failed to read %s", f.Name)
			}
		}
		c.put(m)
	}

	return c, nil
}

func readFile(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if limit > 0 {
		// the header size is attacker controlled
		r = io.LimitReader(rc, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("inflates beyond %d bytes", limit)
	}
	return data, nil
}

// Len returns the number of members, directories included.
func (c *Container) Len() int { return len(c.members) }

// Get returns the content of the named file member. The returned slice must
// not be modified.
func (c *Container) Get(name string) ([]byte, bool) {
	m, ok := c.index[name]
	if !ok || m.IsDir() {
		return nil, false
	}
	return m.Data, true
}

// Has reports whether a file member with the exact name exists.
func (c *Container) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Put replaces the content of name in place, or appends a new member.
func (c *Container) Put(name string, data []byte) {
	if m, ok := c.index[name]; ok {
		m.Data = data
		return
	}
	c.put(&Member{Name: name, Data: data})
}

func (c *Container) put(m *Member) {
	if old, ok := c.index[m.Name]; ok {
		*old = *m
		return
	}
	c.members = append(c.members, m)
	c.index[m.Name] = m
}

// Remove deletes the named member and reports whether it existed.
func (c *Container) Remove(name string) bool {
	m, ok := c.index[name]
	if !ok {
		return false
	}
	delete(c.index, name)
	for i, mm := range c.members {
		if mm == m {
			c.members = append(c.members[:i], c.members[i+1:]...)
			break
		}
	}
	return true
}

// Rename moves a file member to newName, keeping its bytes and metadata. The
// member is re-added at the end of the archive; an existing newName is
// overwritten.
func (c *Container) Rename(oldName, newName string) error {
	m, ok := c.index[oldName]
	if !ok || m.IsDir() {
		return fmt.Errorf("%s not found", oldName)
	}
	if oldName == newName {
		return nil
	}
	c.Remove(oldName)
	c.Remove(newName)
	moved := *m
	moved.Name = newName
	c.put(&moved)
	return nil
}

// Members returns a snapshot of all members in archive order.
func (c *Container) Members() []Member {
	out := make([]Member, 0, len(c.members))
	for _, m := range c.members {
		out = append(out, *m)
	}
	return out
}

// Names returns the file member names in archive order.
func (c *Container) Names() []string {
	var names []string
	for _, m := range c.members {
		if !m.IsDir() {
			names = append(names, m.Name)
		}
	}
	return names
}

// Bytes serializes the container as a zip archive.
func (c *Container) Bytes(method Compression) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range c.members {
		hdr := &zip.FileHeader{
			Name:     m.Name,
			Comment:  m.Comment,
			Modified: m.Modified,
			Method:   uint16(method),
		}
		if m.IsDir() {
			hdr.Method = zip.Store
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", m.Name)
		}
		if m.IsDir() {
			continue
		}
		if _, err := w.Write(m.Data); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", m.Name)
		}
	}
	if c.Comment != "" {
		if err := zw.SetComment(c.Comment); err != nil {
			return nil, errors.Wrap(err, "failed to set archive comment")
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize zip")
	}
	return buf.Bytes(), nil
}
