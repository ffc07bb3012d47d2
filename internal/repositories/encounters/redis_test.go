package encounters

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/sternmatt/dungeonforge/internal/domain/combat"
	dferr "github.com/sternmatt/dungeonforge/internal/errors"
	"github.com/sternmatt/dungeonforge/internal/testutils"
)

type RedisRepoTestSuite struct {
	suite.Suite
	client  *redis.Client
	cleanup func()
	repo    Repository
	ctx     context.Context
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.client, s.cleanup = testutils.CreateTestRedisClient(s.T())
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.client})
	s.ctx = context.Background()
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.cleanup()
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) newTestEncounter(id string) *combat.Encounter {
	enc := combat.NewEncounter(id, "test encounter")
	enc.AddParticipant(testutils.NewTestParticipant("a", "heroes"))
	enc.AddParticipant(testutils.NewTestParticipant("b", "monsters"))
	enc.TurnOrder = []string{"a", "b"}
	enc.Status = combat.StatusActive
	enc.Round = 1
	return enc
}

func (s *RedisRepoTestSuite) TestCreateAndGet() {
	enc := s.newTestEncounter("enc-1")
	enc.AppendLog("round 1: a's turn")
	s.Require().NoError(s.repo.Create(s.ctx, enc))

	got, err := s.repo.Get(s.ctx, "enc-1")
	s.Require().NoError(err)
	s.Equal(combat.StatusActive, got.Status)
	s.Equal([]string{"a", "b"}, got.TurnOrder)
	s.Len(got.Participants, 2)
	s.Equal(20, got.Participants["a"].HP.Current)
	s.Len(got.Log, 1)
}

func (s *RedisRepoTestSuite) TestCreateDuplicate() {
	s.Require().NoError(s.repo.Create(s.ctx, s.newTestEncounter("enc-1")))
	err := s.repo.Create(s.ctx, s.newTestEncounter("enc-1"))
	s.True(dferr.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, "missing")
	s.True(dferr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestUpdate() {
	enc := s.newTestEncounter("enc-1")
	s.Require().NoError(s.repo.Create(s.ctx, enc))

	enc.Round = 3
	enc.Participants["b"].HP.Current = 4
	s.Require().NoError(s.repo.Update(s.ctx, enc))

	got, err := s.repo.Get(s.ctx, "enc-1")
	s.Require().NoError(err)
	s.Equal(3, got.Round)
	s.Equal(4, got.Participants["b"].HP.Current)
}

func (s *RedisRepoTestSuite) TestUpdateNotFound() {
	err := s.repo.Update(s.ctx, s.newTestEncounter("missing"))
	s.True(dferr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestCompletedEncounterExpires() {
	enc := s.newTestEncounter("enc-1")
	enc.End("heroes")
	s.Require().NoError(s.repo.Create(s.ctx, enc))

	ttl, err := s.client.TTL(s.ctx, "encounter:enc-1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisRepoTestSuite) TestDelete() {
	s.Require().NoError(s.repo.Create(s.ctx, s.newTestEncounter("enc-1")))
	s.Require().NoError(s.repo.Delete(s.ctx, "enc-1"))

	_, err := s.repo.Get(s.ctx, "enc-1")
	s.True(dferr.IsNotFound(err))

	s.True(dferr.IsNotFound(s.repo.Delete(s.ctx, "enc-1")))
}
