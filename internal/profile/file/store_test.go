package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/zetpar/zetpar/internal/profile"
	"github.com/zetpar/zetpar/internal/testutil"
)

type StoreSuite struct {
	suite.Suite
	path  string
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	cipher, err := profile.NewCipher()
	s.Require().NoError(err)

	s.path = filepath.Join(s.T().TempDir(), "profiles", "profiles.json")
	s.store = New(s.path, cipher, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *StoreSuite) TestCreatesEmptyFile() {
	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	s.Equal("{}", string(data))
}

func (s *StoreSuite) TestSaveLoadRoundTrip() {
	s.True(s.store.Save(s.ctx, "alice", "p@ss"))

	password, ok := s.store.Load(s.ctx, "alice")
	s.True(ok)
	s.Equal("p@ss", password)
}

func (s *StoreSuite) TestLoadUnknownUser() {
	_, ok := s.store.Load(s.ctx, "bob")
	s.False(ok)
}

func (s *StoreSuite) TestSaveOverwrites() {
	s.True(s.store.Save(s.ctx, "alice", "old"))
	s.True(s.store.Save(s.ctx, "alice", "new"))

	password, ok := s.store.Load(s.ctx, "alice")
	s.True(ok)
	s.Equal("new", password)
}

func (s *StoreSuite) TestPasswordNotStoredInPlaintext() {
	s.True(s.store.Save(s.ctx, "alice", "p@ss"))

	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	s.NotContains(string(data), "p@ss")
}

func (s *StoreSuite) TestListReturnsAllUsernames() {
	s.True(s.store.Save(s.ctx, "alice", "a"))
	s.True(s.store.Save(s.ctx, "carol", "c"))

	s.ElementsMatch([]string{"alice", "carol"}, s.store.List(s.ctx))
}

func (s *StoreSuite) TestListEmptyStore() {
	s.Empty(s.store.List(s.ctx))
}

func (s *StoreSuite) TestDelete() {
	s.True(s.store.Save(s.ctx, "alice", "a"))

	s.True(s.store.Delete(s.ctx, "alice"))
	_, ok := s.store.Load(s.ctx, "alice")
	s.False(ok)
}

func (s *StoreSuite) TestDeleteUnknownUser() {
	s.False(s.store.Delete(s.ctx, "nobody"))
}

func (s *StoreSuite) TestCorruptFileDegrades() {
	s.Require().NoError(os.WriteFile(s.path, []byte("not json"), 0o600))

	s.Empty(s.store.List(s.ctx))
	_, ok := s.store.Load(s.ctx, "alice")
	s.False(ok)
	s.False(s.store.Save(s.ctx, "alice", "p@ss"))
	s.False(s.store.Delete(s.ctx, "alice"))
}

func (s *StoreSuite) TestDifferentStoreInstanceReadsSavedProfile() {
	s.True(s.store.Save(s.ctx, "alice", "p@ss"))

	cipher, err := profile.NewCipher()
	s.Require().NoError(err)
	reopened := New(s.path, cipher, testutil.NopLogger())

	password, ok := reopened.Load(s.ctx, "alice")
	s.True(ok)
	s.Equal("p@ss", password)
}
