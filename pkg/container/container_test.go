package container

import (
	"bytes"
	"hash/crc32"
	"testing"

	"github.com/beatsaver/ingest/internal/testutil"
	"github.com/klauspost/compress/zip"
)

func TestLoad(t *testing.T) {
	raw := testutil.Zip(t,
		testutil.File{Name: "info.dat", Data: []byte(`{}`)},
		testutil.File{Name: "maps/"},
		testutil.File{Name: "maps/Expert.dat", Data: []byte("expert"), Method: zip.Store},
	)

	c, err := Load(raw, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 members, got %d", c.Len())
	}
	if data, ok := c.Get("maps/Expert.dat"); !ok || string(data) != "expert" {
		t.Errorf("unexpected member content %q (ok=%v)", data, ok)
	}
	if c.Has("maps/") {
		t.Error("directory entries must not resolve as files")
	}
	if c.Has("Maps/Expert.dat") || c.Has("./maps/Expert.dat") {
		t.Error("lookup must be exact")
	}
	if got := c.Names(); len(got) != 2 || got[0] != "info.dat" || got[1] != "maps/Expert.dat" {
		t.Errorf("unexpected names %v", got)
	}
}

func TestLoadCorrupt(t *testing.T) {
	valid := testutil.Zip(t, testutil.File{Name: "info.dat", Data: bytes.Repeat([]byte("x"), 512)})

	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"not a zip", []byte("definitely not a zip archive")},
		{"truncated central directory", valid[:len(valid)-10]},
		{"unsupported method", rawZip(t, 99, []byte("data"))},
		{"bad checksum", corruptCRC(t)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.raw, 0); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestLoadMaxMemberSize(t *testing.T) {
	raw := testutil.Zip(t, testutil.File{Name: "big.dat", Data: bytes.Repeat([]byte{'a'}, 4096)})
	if _, err := Load(raw, 1024); err == nil {
		t.Error("expected oversized member to be rejected")
	}
	if _, err := Load(raw, 4096); err != nil {
		t.Errorf("member at the limit should load: %v", err)
	}
}

func TestMutation(t *testing.T) {
	c := New()
	c.Put("info.dat", []byte("v1"))
	c.Put("song.ogg", []byte("audio"))
	c.Put("Easy.dat", []byte("easy"))
	c.Put("info.dat", []byte("v2"))

	if data, _ := c.Get("info.dat"); string(data) != "v2" {
		t.Errorf("Put should replace, got %q", data)
	}
	if err := c.Rename("song.ogg", "song.egg"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if c.Has("song.ogg") {
		t.Error("old name still present after rename")
	}
	if data, ok := c.Get("song.egg"); !ok || string(data) != "audio" {
		t.Errorf("renamed member has %q (ok=%v)", data, ok)
	}
	want := []string{"info.dat", "Easy.dat", "song.egg"}
	got := c.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
	if err := c.Rename("missing.ogg", "missing.egg"); err == nil {
		t.Error("expected error renaming a missing member")
	}
	if !c.Remove("Easy.dat") || c.Remove("Easy.dat") {
		t.Error("Remove should report existence exactly once")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	files := []testutil.File{
		{Name: "info.dat", Data: []byte(`{"_songName":"x"}`)},
		{Name: "sub/"},
		{Name: "sub/Hard.dat", Data: bytes.Repeat([]byte("note"), 100)},
		{Name: "cover.jpg", Data: testutil.JPEG(t, 8, 8), Method: zip.Store},
	}
	c, err := Load(testutil.Zip(t, files...), 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, method := range []Compression{Store, Deflate} {
		t.Run(method.String(), func(t *testing.T) {
			out, err := c.Bytes(method)
			if err != nil {
				t.Fatalf("Bytes failed: %v", err)
			}
			again, err := Load(out, 0)
			if err != nil {
				t.Fatalf("reloading output failed: %v", err)
			}
			if again.Len() != len(files) {
				t.Fatalf("expected %d members, got %d", len(files), again.Len())
			}
			for i, m := range again.Members() {
				if m.Name != files[i].Name {
					t.Errorf("member %d: expected %s, got %s", i, files[i].Name, m.Name)
				}
				if !bytes.Equal(m.Data, files[i].Data) && !(m.IsDir() && len(files[i].Data) == 0) {
					t.Errorf("member %s content changed", m.Name)
				}
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": Store, "store": Store, "DEFLATE": Deflate} {
		got, err := ParseCompression(in)
		if err != nil || got != want {
			t.Errorf("ParseCompression(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseCompression("zstd"); err == nil {
		t.Error("expected error for unknown compression")
	}
}

func rawZip(t *testing.T, method uint16, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.CreateRaw(&zip.FileHeader{
		Name:               "info.dat",
		Method:             method,
		CRC32:              crc32.ChecksumIEEE(data),
		CompressedSize64:   uint64(len(data)),
		UncompressedSize64: uint64(len(data)),
	})
	if err != nil {
		t.Fatalf("CreateRaw failed: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	return buf.Bytes()
}

func corruptCRC(t *testing.T) []byte {
	t.Helper()
	data := []byte("payload")
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.CreateRaw(&zip.FileHeader{
		Name:               "info.dat",
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE(data) ^ 0xffffffff,
		CompressedSize64:   uint64(len(data)),
		UncompressedSize64: uint64(len(data)),
	})
	if err != nil {
		t.Fatalf("CreateRaw failed: %v", err)
	}
	fw.Write(data)
	w.Close()
	return buf.Bytes()
}
