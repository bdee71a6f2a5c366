package dictionary

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/wordformations/config"
)

func stringOpener(contents string) OpenFunc {
	return func(name string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(contents)), nil
	}
}

func TestLoadFromLines(t *testing.T) {
	is := is.New(t)
	d := LoadFrom("toy", stringOpener("CAT\r\nCATS\nAT\nAT\nTA \nDOG"), 0)
	is.NoErr(d.Wait(context.Background()))
	is.Equal(d.Len(), 5)

	words, err := d.Words(context.Background())
	is.NoErr(err)
	// "TA " keeps its trailing space; the duplicate AT collapses.
	is.Equal(words, []string{"AT", "CAT", "CATS", "DOG", "TA "})

	ok, err := d.Has(context.Background(), "CAT")
	is.NoErr(err)
	is.True(ok)
	ok, err = d.Has(context.Background(), "TA")
	is.NoErr(err)
	is.True(!ok)
	is.Equal(d.MaxLength(), 4)
	is.Equal(d.WordsOfLength(3), []string{"CAT", "DOG", "TA "})
}

func TestEmptyLineBecomesEmptyWord(t *testing.T) {
	is := is.New(t)
	d := LoadFrom("blank", stringOpener("A\n\nB\n"), 0)
	ok, err := d.Has(context.Background(), "")
	is.NoErr(err)
	is.True(ok)
	is.Equal(d.Len(), 3)
}

func TestMissingResource(t *testing.T) {
	is := is.New(t)
	d := LoadFrom("nope.txt", ResourceOpener(t.TempDir()), time.Second)
	err := d.Wait(context.Background())
	var rle *ResourceLoadError
	is.True(errors.As(err, &rle))
	is.Equal(rle.Name, "nope.txt")
	is.True(errors.Is(err, ErrResourceNotFound))

	// Every later access fails the same way.
	_, err = d.Words(context.Background())
	is.True(errors.As(err, &rle))
	_, err = d.Has(context.Background(), "CAT")
	is.True(errors.As(err, &rle))
	is.Equal(d.Len(), 0)
}

func TestStreamFailure(t *testing.T) {
	is := is.New(t)
	boom := errors.New("disk on fire")
	d := LoadFrom("broken", func(string) (io.ReadCloser, error) {
		r := io.MultiReader(strings.NewReader("CAT\nDOG\n"), iotest.ErrReader(boom))
		return io.NopCloser(r), nil
	}, 0)
	err := d.Wait(context.Background())
	var rle *ResourceLoadError
	is.True(errors.As(err, &rle))
	is.True(errors.Is(err, boom))
	// No partially populated list is exposed.
	_, err = d.Words(context.Background())
	is.True(err != nil)
}

func TestLoadTimeout(t *testing.T) {
	is := is.New(t)
	release := make(chan struct{})
	defer close(release)
	d := LoadFrom("slow", func(string) (io.ReadCloser, error) {
		<-release
		return io.NopCloser(strings.NewReader("CAT\n")), nil
	}, 10*time.Millisecond)
	err := d.Wait(context.Background())
	is.True(errors.Is(err, context.DeadlineExceeded))
	var rle *ResourceLoadError
	is.True(errors.As(err, &rle))
}

func TestWaitBlocksUntilLoaded(t *testing.T) {
	is := is.New(t)
	release := make(chan struct{})
	d := LoadFrom("gated", func(string) (io.ReadCloser, error) {
		<-release
		return io.NopCloser(strings.NewReader("CAT\n")), nil
	}, 0)
	is.True(!d.Loaded())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	is.True(errors.Is(d.Wait(ctx), context.DeadlineExceeded))

	close(release)
	is.NoErr(d.Wait(context.Background()))
	is.True(d.Loaded())
	is.Equal(d.Len(), 1)
}

func TestChecksumOrderIndependent(t *testing.T) {
	is := is.New(t)
	a := FromWords("a", []string{"CAT", "DOG", "AT"})
	b := FromWords("b", []string{"AT", "CAT", "DOG", "CAT"})
	c := FromWords("c", []string{"AT", "CAT"})
	is.Equal(a.Checksum(), b.Checksum())
	is.True(a.Checksum() != c.Checksum())
}

func TestResourceOpenerPrefersDataPath(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	is.NoErr(os.WriteFile(filepath.Join(dir, "words.txt"), []byte("ZZZ\n"), 0o644))

	d := LoadFrom("words.txt", ResourceOpener(dir), time.Second)
	is.NoErr(d.Wait(context.Background()))
	is.Equal(d.Len(), 1)

	// Not on disk, so the bundled list is used.
	d = LoadFrom("words.txt", ResourceOpener(t.TempDir()), time.Second)
	is.NoErr(d.Wait(context.Background()))
	ok, err := d.Has(context.Background(), "CAT")
	is.NoErr(err)
	is.True(ok)
}

func TestResourceOpenerRejectsBadNames(t *testing.T) {
	is := is.New(t)
	_, err := ResourceOpener(t.TempDir())("../etc/passwd")
	is.True(errors.Is(err, ErrResourceNotFound))
}

func TestGetSharesHandle(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDataPath, t.TempDir())

	d1, err := Get(cfg, "words.txt")
	is.NoErr(err)
	d2, err := Get(cfg, "words.txt")
	is.NoErr(err)
	is.True(d1 == d2)

	d3, err := Reload(cfg, "words.txt")
	is.NoErr(err)
	is.True(d3 != d1)
	is.NoErr(d3.Wait(context.Background()))
}
