package spellcasting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sternmatt/dungeonforge/internal/dice"
	"github.com/sternmatt/dungeonforge/internal/domain/character"
	"github.com/sternmatt/dungeonforge/internal/domain/combat"
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	"github.com/sternmatt/dungeonforge/internal/errors"
	"github.com/sternmatt/dungeonforge/internal/services/encounter"
)

// newTestServices builds the spellcasting service and its encounter
// collaborator over one shared mock roller.
func newTestServices(roller dice.Roller) (Service, encounter.Service) {
	encSvc := encounter.NewService(&encounter.ServiceConfig{Roller: roller})
	return NewService(&ServiceConfig{Encounter: encSvc, Roller: roller}), encSvc
}

// newTestCaster is a level 5 wizard: proficiency +3, Int modifier +3, so
// spell save DC 14 and spell attack bonus +6.
func newTestCaster() *character.Character {
	return &character.Character{
		ID:       "ch_mira",
		Name:     "Mira",
		ClassKey: "wizard",
		Level:    5,
		Abilities: shared.AbilityScores{
			shared.AttributeIntelligence: 16,
			shared.AttributeConstitution: 12,
		},
		SpellcastingAbility: shared.AttributeIntelligence,
		SpellSlots: shared.SpellSlotPool{
			1: {Total: 4, Source: shared.SlotSourceSpellcasting},
			2: {Total: 3, Source: shared.SlotSourceSpellcasting},
			3: {Total: 2, Source: shared.SlotSourceSpellcasting},
		},
	}
}

func newTestParticipant(id string, side combat.Side, opts ...func(*combat.Participant)) *combat.Participant {
	p := &combat.Participant{
		ID:    id,
		Name:  id,
		Side:  side,
		HP:    shared.HPResource{Current: 40, Max: 40},
		AC:    14,
		Speed: 30,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func startTestEncounter(t *testing.T, svc encounter.Service, participants ...*combat.Participant) *combat.Encounter {
	t.Helper()
	enc, err := svc.StartEncounter(&encounter.StartEncounterInput{
		Name:         "spell test",
		Participants: participants,
	})
	require.NoError(t, err)
	return enc
}

func TestConsumeSlot(t *testing.T) {
	svc, _ := newTestServices(dice.NewMockRoller())
	pool := shared.SpellSlotPool{
		1: {Total: 2, Used: 1, Source: shared.SlotSourceSpellcasting},
	}

	next, err := svc.ConsumeSlot(pool, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, next[1].Used)
	// Input pool untouched.
	assert.Equal(t, 1, pool[1].Used)

	// The pool is now dry at level 1.
	_, err = svc.ConsumeSlot(next, 1)
	assert.True(t, errors.IsNoSlotAvailable(err))

	// A level with no slots at all is just as dry.
	_, err = svc.ConsumeSlot(pool, 5)
	assert.True(t, errors.IsNoSlotAvailable(err))
}

func TestRecoverSlots(t *testing.T) {
	svc, _ := newTestServices(dice.NewMockRoller())
	pool := shared.SpellSlotPool{
		2: {Total: 3, Used: 2, Source: shared.SlotSourceSpellcasting},
	}

	next, err := svc.RecoverSlots(pool, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, next[2].Used)
	assert.Equal(t, 2, pool[2].Used)

	// Recovery clamps at fully rested.
	rested, err := svc.RecoverSlots(pool, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, rested[2].Used)
}

func TestRests(t *testing.T) {
	svc, _ := newTestServices(dice.NewMockRoller())
	pool := shared.SpellSlotPool{
		1: {Total: 4, Used: 3, Source: shared.SlotSourceSpellcasting},
		5: {Total: 2, Used: 2, Source: shared.SlotSourcePactMagic},
	}

	short := svc.ShortRest(pool)
	assert.Equal(t, 3, short[1].Used) // spellcasting slots stay spent
	assert.Equal(t, 0, short[5].Used) // pact magic comes back

	long := svc.LongRest(pool)
	assert.Equal(t, 0, long[1].Used)
	assert.Equal(t, 0, long[5].Used)

	// Input pool untouched by either rest.
	assert.Equal(t, 3, pool[1].Used)
	assert.Equal(t, 2, pool[5].Used)
}

func TestCastSpell_CantripAttackRoll(t *testing.T) {
	roller := dice.NewMockRoller()
	// initiative x2; spell attack 10 (+6 vs AC 14 hits); 1d10 -> 7
	roller.SetRolls([]int{15, 5, 10, 7})
	svc, encSvc := newTestServices(roller)

	enc := startTestEncounter(t, encSvc,
		newTestParticipant("mira", "heroes"),
		newTestParticipant("goblin", "monsters"),
	)
	caster := newTestCaster()

	next, result, err := svc.CastSpell(enc, &CastSpellInput{
		Caster:              caster,
		CasterParticipantID: "mira",
		SpellKey:            "fire-bolt",
		TargetIDs:           []string{"goblin"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.SlotLevel)
	require.Len(t, result.Targets, 1)
	outcome := result.Targets[0]
	require.NotNil(t, outcome.Attack)
	assert.True(t, outcome.Attack.Hit)
	assert.Equal(t, 16, outcome.Attack.AttackRoll.Total)
	assert.Equal(t, 7, outcome.Damage)
	assert.Equal(t, 33, next.Participants["goblin"].HP.Current)
	// Cantrips never touch the slot pool.
	assert.Equal(t, 0, result.Caster.SpellSlots[1].Used)
	// Input snapshots untouched.
	assert.Equal(t, 40, enc.Participants["goblin"].HP.Current)
	assert.Equal(t, 0, caster.SpellSlots[1].Used)
}

func TestCastSpell_ConsumesAction(t *testing.T) {
	roller := dice.NewMockRoller()
	roller.SetRolls([]int{15, 5, 10, 7})
	svc, encSvc := newTestServices(roller)

	enc := startTestEncounter(t, encSvc,
		newTestParticipant("mira", "heroes"),
		newTestParticipant("goblin", "monsters"),
	)

	next, _, err := svc.CastSpell(enc, &CastSpellInput{
		Caster:              newTestCaster(),
		CasterParticipantID: "mira",
		SpellKey:            "fire-bolt",
		TargetIDs:           []string{"goblin"},
		ConsumeAction:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, next.Participants["mira"].Resources.ActionsRemaining)

	_, _, err = svc.CastSpell(next, &CastSpellInput{
		Caster:              newTestCaster(),
		CasterParticipantID: "mira",
		SpellKey:            "fire-bolt",
		TargetIDs:           []string{"goblin"},
		ConsumeAction:       true,
	})
	assert.True(t, errors.IsInsufficientResource(err))
}

func TestCastSpell_UpcastAutoHit(t *testing.T) {
	roller := dice.NewMockRoller()
	// initiative x2; magic missile at level 2 rolls 3d4 plus one upcast
	// 1d4: [2 3 4] + 3 and [1] + 1 = 14 force damage.
	roller.SetRolls([]int{15, 5, 2, 3, 4, 1})
	svc, encSvc := newTestServices(roller)

	enc := startTestEncounter(t, encSvc,
		newTestParticipant("mira", "heroes"),
		newTestParticipant("goblin", "monsters"),
	)

	next, result, err := svc.CastSpell(enc, &CastSpellInput{
		Caster:              newTestCaster(),
		CasterParticipantID: "mira",
		SpellKey:            "magic-missile",
		SlotLevel:           2,
		TargetIDs:           []string{"goblin"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SlotLevel)
	assert.Equal(t, 1, result.Caster.SpellSlots[2].Used)
	assert.Equal(t, 0, result.Caster.SpellSlots[1].Used)
	require.Len(t, result.Targets, 1)
	assert.Equal(t, 14, result.Targets[0].Damage)
	assert.Equal(t, 26, next.Participants["goblin"].HP.Current)
	assert.Equal(t, 0, roller.Remaining())
}

func TestCastSpell_SaveForHalf(t *testing.T) {
	roller := dice.NewMockRoller()
	// initiative x3; fireball damage 8d6 = 28; nimble saves with 13+2=15
	// vs DC 14 for half, clumsy fails with 5.
	roller.SetRolls([]int{18, 12, 6, 4, 3, 5, 2, 6, 1, 3, 4, 13, 5})
	svc, encSvc := newTestServices(roller)

	enc := startTestEncounter(t, encSvc,
		newTestParticipant("mira", "heroes"),
		newTestParticipant("nimble", "monsters", func(p *combat.Participant) {
			p.SaveBonuses = map[shared.Attribute]int{shared.AttributeDexterity: 2}
		}),
		newTestParticipant("clumsy", "monsters"),
	)
	caster := newTestCaster()

	next, result, err := svc.CastSpell(enc, &CastSpellInput{
		Caster:              caster,
		CasterParticipantID: "mira",
		SpellKey:            "fireball",
		TargetIDs:           []string{"nimble", "clumsy"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.SlotLevel)
	assert.Equal(t, 1, result.Caster.SpellSlots[3].Used)
	require.Len(t, result.Targets, 2)

	saved := result.Targets[0]
	assert.True(t, saved.Saved)
	assert.Equal(t, 14, saved.SaveDC)
	assert.Equal(t, 28, saved.RolledDamage)
	assert.Equal(t, 14, saved.Damage)
	assert.Equal(t, 26, next.Participants["nimble"].HP.Current)

	failed := result.Targets[1]
	assert.False(t, failed.Saved)
	assert.Equal(t, 28, failed.Damage)
	assert.Equal(t, 12, next.Participants["clumsy"].HP.Current)
}

func TestCastSpell_SaveSpellAppliesCondition(t *testing.T) {
	roller := dice.NewMockRoller()
	// initiative x2; the target's Wisdom save of 4 misses DC 14.
	roller.SetRolls([]int{15, 5, 4})
	svc, encSvc := newTestServices(roller)

	enc := startTestEncounter(t, encSvc,
		newTestParticipant("mira", "heroes"),
		newTestParticipant("brute", "monsters"),
	)
	caster := newTestCaster()

	next, result, err := svc.CastSpell(enc, &CastSpellInput{
		Caster:              caster,
		CasterParticipantID: "mira",
		SpellKey:            "hold-person",
		TargetIDs:           []string{"brute"},
	})
	require.NoError(t, err)

	require.Len(t, result.Targets, 1)
	assert.Equal(t, shared.ConditionParalyzed, result.Targets[0].ConditionApplied)

	brute := next.Participants["brute"]
	require.Len(t, brute.Conditions, 1)
	cond := brute.Conditions[0]
	assert.Equal(t, shared.ConditionParalyzed, cond.Type)
	assert.Equal(t, "Hold Person", cond.Source)
	assert.Equal(t, 10, cond.RemainingRounds)
	assert.Equal(t, 14, cond.SaveDC)
	assert.Equal(t, shared.AttributeWisdom, cond.SaveAbility)

	assert.True(t, result.ConcentrationStarted)
	require.NotNil(t, result.Caster.Concentration)
	assert.Equal(t, "hold-person", result.Caster.Concentration.SpellKey)
	assert.Equal(t, "hold-person", next.Participants["mira"].Concentration.SpellKey)
}

func TestCastSpell_SuccessfulSaveNegatesCondition(t *testing.T) {
	roller := dice.NewMockRoller()
	roller.SetRolls([]int{15, 5, 19})
	svc, encSvc := newTestServices(roller)

	enc := startTestEncounter(t, encSvc,
		newTestParticipant("mira", "heroes"),
		newTestParticipant("brute", "monsters"),
	)

	next, result, err := svc.CastSpell(enc, &CastSpellInput{
		Caster:              newTestCaster(),
		CasterParticipantID: "mira",
		SpellKey:            "hold-person",
		TargetIDs:           []string{"brute"},
	})
	require.NoError(t, err)

	require.Len(t, result.Targets, 1)
	assert.True(t, result.Targets[0].Saved)
	assert.Empty(t, result.Targets[0].ConditionApplied)
	assert.Empty(t, next.Participants["brute"].Conditions)
	// Concentration begins even when every target shrugs the spell off.
	assert.True(t, result.ConcentrationStarted)
}

func TestCastSpell_NewConcentrationReplacesPrior(t *testing.T) {
	roller := dice.NewMockRoller()
	roller.SetRolls([]int{15, 5, 4})
	svc, encSvc := newTestServices(roller)

	enc := startTestEncounter(t, encSvc,
		newTestParticipant("mira", "heroes", func(p *combat.Participant) {
			p.Concentration = &shared.ConcentrationState{SpellKey: "witch-bolt", SpellName: "Witch Bolt", SpellLevel: 1}
		}),
		newTestParticipant("brute", "monsters"),
	)
	caster := newTestCaster()
	caster.Concentration = &shared.ConcentrationState{SpellKey: "witch-bolt", SpellName: "Witch Bolt", SpellLevel: 1}

	next, result, err := svc.CastSpell(enc, &CastSpellInput{
		Caster:              caster,
		CasterParticipantID: "mira",
		SpellKey:            "hold-person",
		TargetIDs:           []string{"brute"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Witch Bolt", result.PriorConcentrationEnded)
	assert.Equal(t, "hold-person", result.Caster.Concentration.SpellKey)
	assert.Equal(t, "hold-person", next.Participants["mira"].Concentration.SpellKey)
}

func TestCastSpell_SlotValidation(t *testing.T) {
	roller := dice.NewMockRoller()
	roller.SetRolls([]int{15, 5})
	svc, encSvc := newTestServices(roller)

	enc := startTestEncounter(t, encSvc,
		newTestParticipant("mira", "heroes"),
		newTestParticipant("goblin", "monsters"),
	)

	t.Run("cantrip cannot expend a slot", func(t *testing.T) {
		_, _, err := svc.CastSpell(enc, &CastSpellInput{
			Caster:              newTestCaster(),
			CasterParticipantID: "mira",
			SpellKey:            "fire-bolt",
			SlotLevel:           1,
			TargetIDs:           []string{"goblin"},
		})
		assert.True(t, errors.IsInvalidArgument(err))
	})

	t.Run("slot below spell level", func(t *testing.T) {
		_, _, err := svc.CastSpell(enc, &CastSpellInput{
			Caster:              newTestCaster(),
			CasterParticipantID: "mira",
			SpellKey:            "fireball",
			SlotLevel:           2,
			TargetIDs:           []string{"goblin"},
		})
		assert.True(t, errors.IsInvalidArgument(err))
	})

	t.Run("no slot remaining", func(t *testing.T) {
		caster := newTestCaster()
		caster.SpellSlots[3] = shared.SlotInfo{Total: 2, Used: 2, Source: shared.SlotSourceSpellcasting}

		_, _, err := svc.CastSpell(enc, &CastSpellInput{
			Caster:              caster,
			CasterParticipantID: "mira",
			SpellKey:            "fireball",
			TargetIDs:           []string{"goblin"},
		})
		assert.True(t, errors.IsNoSlotAvailable(err))
		// The failed cast consumed nothing.
		assert.Equal(t, 2, caster.SpellSlots[3].Used)
	})

	t.Run("unknown spell", func(t *testing.T) {
		_, _, err := svc.CastSpell(enc, &CastSpellInput{
			Caster:              newTestCaster(),
			CasterParticipantID: "mira",
			SpellKey:            "wish",
			TargetIDs:           []string{"goblin"},
		})
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestCastSpell_UnknownParticipant(t *testing.T) {
	roller := dice.NewMockRoller()
	roller.SetRolls([]int{15, 5})
	svc, encSvc := newTestServices(roller)

	enc := startTestEncounter(t, encSvc,
		newTestParticipant("mira", "heroes"),
		newTestParticipant("goblin", "monsters"),
	)

	_, _, err := svc.CastSpell(enc, &CastSpellInput{
		Caster:              newTestCaster(),
		CasterParticipantID: "nobody",
		SpellKey:            "fire-bolt",
		TargetIDs:           []string{"goblin"},
	})
	assert.True(t, errors.IsInvariantViolation(err))
}
