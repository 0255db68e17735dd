// Package pairing implements the couple-pairing state machine: a couple is
// created half paired by Register and completed by Join. Login and identity
// resolution live here too since they share the credential rules.
package pairing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/weddingplanner/internal/dependencies/clock"
	"github.com/mcoot/weddingplanner/internal/dependencies/random"
	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/services/credential"
	"github.com/mcoot/weddingplanner/internal/services/invite"
	"github.com/mcoot/weddingplanner/internal/services/textcheck"
	"github.com/mcoot/weddingplanner/internal/storage"
)

const (
	// MaxNameLength is the maximum member name length in runes
	MaxNameLength = 30

	// maxCodeAttempts bounds invite code generation on collision
	maxCodeAttempts = 5
)

// DefaultJoinRole is assigned when a valid couple has no members to complement
const DefaultJoinRole = model.RoleBride

// Pairing is the result of a successful Register, Join or Login
type Pairing struct {
	Member model.Member
	Couple model.Couple
}

// RegisterInput holds the fields supplied by the founding member
type RegisterInput struct {
	Name string
	PIN  string
	Role string
}

// JoinInput holds the fields supplied by the joining partner
type JoinInput struct {
	Name       string
	PIN        string
	InviteCode string
}

// Preview describes what a Join against a code would do. Reason is set
// whenever Valid is false.
type Preview struct {
	Valid        bool
	AssignedRole model.Role
	PartnerName  string
	Reason       error
}

// Service runs the pairing state machine against storage
type Service struct {
	storage storage.Storage
	hasher  credential.Hasher
	codes   *invite.Generator
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new pairing Service
func New(
	storage storage.Storage,
	hasher credential.Hasher,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		hasher:  hasher,
		codes:   invite.NewGenerator(random),
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "pairing")),
	}
}

// ValidateName trims a display name and enforces the name rules
func ValidateName(raw string) (string, error) {
	return textcheck.Field("name", raw, MaxNameLength)
}

// Register creates a couple with a fresh invite code and its founding member
// (EMPTY -> HALF_PAIRED). The founder picks their role explicitly.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Pairing, error) {
	name, err := ValidateName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := credential.ValidatePIN(in.PIN); err != nil {
		return nil, err
	}
	role, ok := model.ParseRole(strings.TrimSpace(in.Role))
	if !ok {
		return nil, model.NewValidationError("role", "must be bride or groom")
	}

	now := s.clock.Now()
	couple := model.Couple{
		ID:        model.CoupleID(s.random.ID()),
		CreatedAt: now,
	}
	member := model.Member{
		ID:        model.MemberID(s.random.ID()),
		CoupleID:  couple.ID,
		Name:      name,
		PINHash:   s.hasher.Hash(in.PIN),
		Role:      role,
		CreatedAt: now,
	}

	for attempt := 1; ; attempt++ {
		couple.InviteCode = s.codes.Generate()

		err := s.storage.CreateCouple(ctx, &couple, &member)
		if err == nil {
			break
		}
		if !errors.Is(err, model.ErrInviteCodeTaken) {
			s.logger.Error("failed to create couple",
				slog.String("couple_id", string(couple.ID)),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("create couple: %w", err)
		}
		if attempt >= maxCodeAttempts {
			s.logger.Error("invite code space exhausted",
				slog.Int("attempts", attempt),
			)
			return nil, model.ErrInviteCodeExhausted
		}
		s.logger.Warn("invite code collision, retrying",
			slog.Int("attempt", attempt),
		)
	}

	s.logger.Info("couple registered",
		slog.String("couple_id", string(couple.ID)),
		slog.String("member_id", string(member.ID)),
		slog.String("role", string(role)),
	)

	return &Pairing{Member: member, Couple: couple}, nil
}

// Join binds a new member to the couple owning the invite code
// (HALF_PAIRED -> PAIRED). The role is the complement of the existing
// member's role.
func (s *Service) Join(ctx context.Context, in JoinInput) (*Pairing, error) {
	name, err := ValidateName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := credential.ValidatePIN(in.PIN); err != nil {
		return nil, err
	}

	couple, members, err := s.openCouple(ctx, in.InviteCode)
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		if m.Name == name {
			return nil, model.ErrDuplicateNameInCouple
		}
	}

	member := model.Member{
		ID:        model.MemberID(s.random.ID()),
		CoupleID:  couple.ID,
		Name:      name,
		PINHash:   s.hasher.Hash(in.PIN),
		Role:      assignedRole(members),
		CreatedAt: s.clock.Now(),
	}

	// The store re-checks capacity, name and role atomically
	if err := s.storage.AddMember(ctx, &member); err != nil {
		switch {
		case errors.Is(err, model.ErrCoupleFull):
			return nil, model.ErrCoupleAlreadyComplete
		case errors.Is(err, model.ErrDuplicateName):
			return nil, model.ErrDuplicateNameInCouple
		case errors.Is(err, model.ErrCoupleNotFound):
			return nil, model.ErrInvalidInviteCode
		}
		s.logger.Error("failed to add member",
			slog.String("couple_id", string(couple.ID)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("add member: %w", err)
	}

	s.logger.Info("member joined",
		slog.String("couple_id", string(couple.ID)),
		slog.String("member_id", string(member.ID)),
		slog.String("role", string(member.Role)),
	)

	return &Pairing{Member: member, Couple: *couple}, nil
}

// Preview reports whether a Join against code would pass the code and
// capacity checks, and with which role. It never mutates state.
func (s *Service) Preview(ctx context.Context, code string) Preview {
	_, members, err := s.openCouple(ctx, code)
	if err != nil {
		return Preview{Reason: err}
	}

	p := Preview{
		Valid:        true,
		AssignedRole: assignedRole(members),
	}
	if len(members) > 0 {
		p.PartnerName = members[0].Name
	}
	return p
}

// openCouple resolves code to a couple that still has room: Join
// preconditions 1 and 2, shared with Preview
func (s *Service) openCouple(ctx context.Context, rawCode string) (*model.Couple, []model.Member, error) {
	code, ok := invite.Normalize(rawCode)
	if !ok {
		return nil, nil, model.ErrInvalidInviteCode
	}

	couple, err := s.storage.GetCoupleByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrCoupleNotFound) {
			return nil, nil, model.ErrInvalidInviteCode
		}
		return nil, nil, fmt.Errorf("lookup invite code: %w", err)
	}

	members, err := s.storage.ListMembers(ctx, couple.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list members: %w", err)
	}
	if len(members) >= model.MaxMembersPerCouple {
		return nil, nil, model.ErrCoupleAlreadyComplete
	}

	return couple, members, nil
}

func assignedRole(existing []model.Member) model.Role {
	if len(existing) == 0 {
		return DefaultJoinRole
	}
	return existing[0].Role.Complement()
}

// Login finds the member whose name and PIN digest both match. Every kind
// of mismatch yields model.ErrCredentialMismatch.
func (s *Service) Login(ctx context.Context, name, pin string) (*Pairing, error) {
	name = strings.TrimSpace(name)
	if name == "" || credential.ValidatePIN(pin) != nil {
		return nil, model.ErrCredentialMismatch
	}

	member, err := s.storage.FindMemberByCredentials(ctx, name, s.hasher.Hash(pin))
	if err != nil {
		if errors.Is(err, model.ErrMemberNotFound) {
			return nil, model.ErrCredentialMismatch
		}
		return nil, fmt.Errorf("find member: %w", err)
	}

	couple, err := s.storage.GetCouple(ctx, member.CoupleID)
	if err != nil {
		if errors.Is(err, model.ErrCoupleNotFound) {
			return nil, model.ErrCredentialMismatch
		}
		return nil, fmt.Errorf("get couple: %w", err)
	}

	return &Pairing{Member: *member, Couple: *couple}, nil
}

// Resolve loads the current member, couple and partner for memberID.
// Returns model.ErrMemberNotFound or model.ErrCoupleNotFound once either
// has been deleted.
func (s *Service) Resolve(ctx context.Context, memberID model.MemberID) (*model.Identity, error) {
	member, err := s.storage.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	couple, err := s.storage.GetCouple(ctx, member.CoupleID)
	if err != nil {
		return nil, err
	}

	members, err := s.storage.ListMembers(ctx, couple.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	cwm := model.CoupleWithMembers{Couple: *couple, Members: members}
	identity := &model.Identity{Member: member, Couple: couple}
	if partner := cwm.Partner(member.ID); partner != nil {
		p := *partner
		identity.Partner = &p
	}
	return identity, nil
}

// RegenerateInviteCode rotates a couple's invite code. The old code stops
// resolving immediately.
func (s *Service) RegenerateInviteCode(ctx context.Context, coupleID model.CoupleID) (*model.Couple, error) {
	for attempt := 1; ; attempt++ {
		code := s.codes.Generate()

		err := s.storage.UpdateInviteCode(ctx, coupleID, code)
		if err == nil {
			break
		}
		if errors.Is(err, model.ErrCoupleNotFound) {
			return nil, err
		}
		if !errors.Is(err, model.ErrInviteCodeTaken) {
			return nil, fmt.Errorf("update invite code: %w", err)
		}
		if attempt >= maxCodeAttempts {
			return nil, model.ErrInviteCodeExhausted
		}
	}

	couple, err := s.storage.GetCouple(ctx, coupleID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("invite code rotated",
		slog.String("couple_id", string(coupleID)),
	)
	return couple, nil
}
