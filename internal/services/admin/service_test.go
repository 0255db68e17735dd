package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage/memory"
	"github.com/mcoot/weddingplanner/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store   *memory.Storage
	service *Service
	ctx     context.Context
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.service = New(s.store, "s3cret", testutil.NopLogger())
	s.ctx = context.Background()
	s.now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) seedCouple(id, code string, names ...string) {
	roles := []model.Role{model.RoleBride, model.RoleGroom}
	couple := &model.Couple{ID: model.CoupleID(id), InviteCode: model.InviteCode(code), CreatedAt: s.now}
	founder := &model.Member{
		ID: model.MemberID(id + "-m0"), CoupleID: couple.ID, Name: names[0], Role: roles[0], CreatedAt: s.now,
	}
	s.Require().NoError(s.store.CreateCouple(s.ctx, couple, founder))
	for i, name := range names[1:] {
		m := &model.Member{
			ID: model.MemberID(id + "-m1"), CoupleID: couple.ID, Name: name, Role: roles[i+1], CreatedAt: s.now,
		}
		s.Require().NoError(s.store.AddMember(s.ctx, m))
	}
}

func (s *ServiceSuite) TestAuthenticate() {
	s.NoError(s.service.Authenticate("s3cret"))
	s.ErrorIs(s.service.Authenticate("wrong"), model.ErrAdminPasswordMismatch)
	s.ErrorIs(s.service.Authenticate(""), model.ErrAdminPasswordMismatch)
	s.ErrorIs(s.service.Authenticate("s3cret "), model.ErrAdminPasswordMismatch)
}

func (s *ServiceSuite) TestAuthenticateDisabledWithoutPassword() {
	disabled := New(s.store, "", testutil.NopLogger())
	s.False(disabled.Enabled())
	s.ErrorIs(disabled.Authenticate(""), model.ErrAdminPasswordMismatch)
}

func (s *ServiceSuite) TestListCouples() {
	s.seedCouple("c1", "AAA111", "Min", "Yuna")
	s.seedCouple("c2", "BBB222", "Jun")

	couples, err := s.service.ListCouples(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(couples, 2)

	byID := map[model.CoupleID]model.CoupleWithMembers{}
	for _, c := range couples {
		byID[c.Couple.ID] = c
	}
	s.Len(byID["c1"].Members, 2)
	s.Len(byID["c2"].Members, 1)
}

func (s *ServiceSuite) TestDeleteCoupleCascades() {
	s.seedCouple("c1", "AAA111", "Min", "Yuna")

	s.Require().NoError(s.service.DeleteCouple(s.ctx, "c1"))

	_, err := s.store.GetMember(s.ctx, "c1-m0")
	s.ErrorIs(err, model.ErrMemberNotFound)
	couples, err := s.service.ListCouples(s.ctx)
	s.Require().NoError(err)
	s.Empty(couples)
}

func (s *ServiceSuite) TestDeleteMemberReopensSlot() {
	s.seedCouple("c1", "AAA111", "Min", "Yuna")

	s.Require().NoError(s.service.DeleteMember(s.ctx, "c1-m1"))

	members, err := s.store.ListMembers(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal(model.PairingStateHalfPaired, model.PairingStateFor(len(members)))
}

func (s *ServiceSuite) TestDeleteUnknownIsNotAnError() {
	s.NoError(s.service.DeleteCouple(s.ctx, "missing"))
	s.NoError(s.service.DeleteMember(s.ctx, "missing"))
}
