package shared_test

import (
	"testing"

	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	"github.com/sternmatt/dungeonforge/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnResources_Reset(t *testing.T) {
	res := shared.TurnResources{
		ActionsRemaining:      0,
		BonusActionsRemaining: 0,
		ReactionsRemaining:    0,
		MovementRemaining:     5,
	}

	res.Reset(30)

	assert.Equal(t, shared.TurnResources{
		ActionsRemaining:      1,
		BonusActionsRemaining: 1,
		ReactionsRemaining:    1,
		MovementRemaining:     30,
	}, res)
}

func TestTurnResources_Use(t *testing.T) {
	t.Run("action spends once then fails", func(t *testing.T) {
		res := shared.NewTurnResources(30)

		require.NoError(t, res.UseAction())
		err := res.UseAction()
		require.Error(t, err)
		assert.True(t, errors.IsInsufficientResource(err))
		assert.Equal(t, 0, res.ActionsRemaining)
	})

	t.Run("bonus action independent of action", func(t *testing.T) {
		res := shared.NewTurnResources(30)

		require.NoError(t, res.UseAction())
		require.NoError(t, res.UseBonusAction())
		assert.True(t, errors.IsInsufficientResource(res.UseBonusAction()))
	})

	t.Run("movement spends by feet", func(t *testing.T) {
		res := shared.NewTurnResources(30)

		require.NoError(t, res.UseMovement(20))
		assert.Equal(t, 10, res.MovementRemaining)

		err := res.UseMovement(15)
		require.Error(t, err)
		assert.True(t, errors.IsInsufficientResource(err))
		assert.Equal(t, 10, res.MovementRemaining)
	})
}

func TestSpellSlotPool_Consume(t *testing.T) {
	t.Run("spends a slot", func(t *testing.T) {
		pool := shared.SpellSlotPool{
			1: {Total: 2, Used: 0, Source: shared.SlotSourceSpellcasting},
		}

		require.NoError(t, pool.Consume(1))
		assert.Equal(t, 1, pool[1].Used)
	})

	t.Run("fails when exhausted and leaves pool unchanged", func(t *testing.T) {
		pool := shared.SpellSlotPool{
			1: {Total: 2, Used: 2, Source: shared.SlotSourceSpellcasting},
			2: {Total: 1, Used: 0, Source: shared.SlotSourceSpellcasting},
		}

		err := pool.Consume(1)
		require.Error(t, err)
		assert.True(t, errors.IsNoSlotAvailable(err))
		assert.Equal(t, 2, pool[1].Used)
		assert.Equal(t, 0, pool[2].Used)
	})

	t.Run("never upcasts", func(t *testing.T) {
		pool := shared.SpellSlotPool{
			2: {Total: 1, Used: 0, Source: shared.SlotSourceSpellcasting},
		}

		assert.True(t, errors.IsNoSlotAvailable(pool.Consume(1)))
		assert.Equal(t, 0, pool[2].Used)
	})

	t.Run("used over total is an invariant violation", func(t *testing.T) {
		pool := shared.SpellSlotPool{
			1: {Total: 1, Used: 2, Source: shared.SlotSourceSpellcasting},
		}

		assert.True(t, errors.IsInvariantViolation(pool.Consume(1)))
	})
}

func TestSpellSlotPool_Recover(t *testing.T) {
	pool := shared.SpellSlotPool{
		1: {Total: 3, Used: 2, Source: shared.SlotSourceSpellcasting},
	}

	require.NoError(t, pool.Recover(1, 5))
	assert.Equal(t, 0, pool[1].Used, "recovery clamps at zero used")

	// Recovering an absent level is a no-op.
	require.NoError(t, pool.Recover(4, 1))
}

func TestSpellSlotPool_ReplaceTotals(t *testing.T) {
	pool := shared.SpellSlotPool{
		1: {Total: 4, Used: 3, Source: shared.SlotSourceSpellcasting},
		2: {Total: 2, Used: 2, Source: shared.SlotSourceSpellcasting},
	}

	next := pool.ReplaceTotals(map[int]int{1: 4, 2: 3, 3: 2}, shared.SlotSourceSpellcasting)

	assert.Equal(t, shared.SlotInfo{Total: 4, Used: 3, Source: shared.SlotSourceSpellcasting}, next[1], "used carries over, not refunded")
	assert.Equal(t, shared.SlotInfo{Total: 3, Used: 2, Source: shared.SlotSourceSpellcasting}, next[2])
	assert.Equal(t, shared.SlotInfo{Total: 2, Used: 0, Source: shared.SlotSourceSpellcasting}, next[3])
}

func TestSpellSlotPool_ReplaceTotalsClampsDown(t *testing.T) {
	pool := shared.SpellSlotPool{
		1: {Total: 4, Used: 4, Source: shared.SlotSourceSpellcasting},
	}

	next := pool.ReplaceTotals(map[int]int{1: 3}, shared.SlotSourceSpellcasting)
	assert.Equal(t, 3, next[1].Used, "used clamps to the new lower total")
}

func TestSpellSlotPool_Rests(t *testing.T) {
	pool := shared.SpellSlotPool{
		1: {Total: 4, Used: 2, Source: shared.SlotSourceSpellcasting},
		2: {Total: 2, Used: 2, Source: shared.SlotSourcePactMagic},
	}

	pool.ShortRest()
	assert.Equal(t, 2, pool[1].Used, "spellcasting slots survive a short rest")
	assert.Equal(t, 0, pool[2].Used, "pact magic restores on a short rest")

	pool.LongRest()
	assert.Equal(t, 0, pool[1].Used)
}

func TestActiveCondition_TickRound(t *testing.T) {
	t.Run("counts down and expires", func(t *testing.T) {
		cond := &shared.ActiveCondition{Type: shared.ConditionPoisoned, RemainingRounds: 2}

		assert.False(t, cond.TickRound())
		assert.True(t, cond.TickRound())
	})

	t.Run("until-removed never expires", func(t *testing.T) {
		cond := &shared.ActiveCondition{Type: shared.ConditionProne, RemainingRounds: shared.DurationUntilRemoved}

		for i := 0; i < 10; i++ {
			assert.False(t, cond.TickRound())
		}
	})
}

func TestTickConditions(t *testing.T) {
	conditions := []*shared.ActiveCondition{
		{Type: shared.ConditionPoisoned, RemainingRounds: 1},
		{Type: shared.ConditionRestrained, RemainingRounds: 3},
		{Type: shared.ConditionProne, RemainingRounds: shared.DurationUntilRemoved},
	}

	remaining, expired := shared.TickConditions(conditions)

	require.Len(t, remaining, 2)
	assert.Equal(t, shared.ConditionRestrained, remaining[0].Type)
	assert.Equal(t, shared.ConditionProne, remaining[1].Type)
	assert.Equal(t, []shared.ConditionType{shared.ConditionPoisoned}, expired)
}

func TestConditionType_Flags(t *testing.T) {
	assert.True(t, shared.ConditionStunned.Incapacitating())
	assert.False(t, shared.ConditionPoisoned.Incapacitating())
	assert.True(t, shared.ConditionPoisoned.ImposesAttackDisadvantage())
	assert.True(t, shared.ConditionParalyzed.GrantsAttackAdvantage())
	assert.False(t, shared.ConditionCharmed.GrantsAttackAdvantage())
}

func TestHPResource(t *testing.T) {
	t.Run("damage uses temporary HP first", func(t *testing.T) {
		hp := shared.HPResource{Current: 10, Max: 10, Temporary: 4}

		dealt := hp.ApplyDamage(6)
		assert.Equal(t, 6, dealt)
		assert.Equal(t, shared.HPResource{Current: 8, Max: 10, Temporary: 0}, hp)
	})

	t.Run("damage floors at zero", func(t *testing.T) {
		hp := shared.HPResource{Current: 3, Max: 10}

		hp.ApplyDamage(9)
		assert.Equal(t, 0, hp.Current)
		assert.True(t, hp.Depleted())
	})

	t.Run("heal clamps at max", func(t *testing.T) {
		hp := shared.HPResource{Current: 8, Max: 10}

		healed := hp.Heal(5)
		assert.Equal(t, 2, healed)
		assert.Equal(t, 10, hp.Current)
	})

	t.Run("temporary HP does not stack", func(t *testing.T) {
		hp := shared.HPResource{Current: 10, Max: 10, Temporary: 5}

		hp.GrantTemporary(3)
		assert.Equal(t, 5, hp.Temporary)
		hp.GrantTemporary(8)
		assert.Equal(t, 8, hp.Temporary)
	})
}
