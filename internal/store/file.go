package store

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/nsip/procurement-maturity/internal/ingest"
	"github.com/nsip/procurement-maturity/internal/model"
)

//
// one json document per organization under a data directory.
//
type File struct {
	dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "cannot create data directory %s", dir)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(orgName string) string {
	return filepath.Join(f.dir, Key(orgName)+".json")
}

func (f *File) LoadOrganization(ctx context.Context, name string) (*model.Organization, error) {
	raw, err := ioutil.ReadFile(f.path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read organization %q", name)
	}
	org, err := ingest.DecodeOrganization(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "organization %q", name)
	}
	return org, nil
}

func (f *File) SaveUser(ctx context.Context, orgName string, u model.UserRecord) error {
	if Key(orgName) == "" {
		return ErrEmptyOrganization
	}
	existing, err := f.LoadOrganization(ctx, orgName)
	if err != nil {
		return err
	}
	raw, err := encode(merge(existing, orgName, u))
	if err != nil {
		return err
	}

	// write then rename so a reader never sees half a document
	tmp, err := ioutil.TempFile(f.dir, ".org-*")
	if err != nil {
		return errors.Wrap(err, "cannot create temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrap(err, "cannot write organization")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "cannot write organization")
	}
	return errors.Wrap(os.Rename(tmp.Name(), f.path(orgName)), "cannot replace organization file")
}

func (f *File) Organizations(ctx context.Context) ([]string, error) {
	entries, err := ioutil.ReadDir(f.dir)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list data directory")
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		org, err := f.loadPath(filepath.Join(f.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		names = append(names, org.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *File) loadPath(path string) (*model.Organization, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	return ingest.DecodeOrganization(raw)
}

func (f *File) Close() error {
	return nil
}
