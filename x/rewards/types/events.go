package types

const (
	EventStakeDeposited     = "rewards.stake_deposited"
	EventStakeWithdrawn     = "rewards.stake_withdrawn"
	EventRewardClaimed      = "rewards.reward_claimed"
	EventGroupRewarded      = "rewards.group_rewarded"
	EventCurrencyAttached   = "rewards.currency_attached"
	EventCurrencyMoved      = "rewards.currency_moved"
	EventChangeQueued       = "rewards.change_queued"
	EventNewEpoch           = "rewards.new_epoch"
	EventEpochChangesFailed = "rewards.epoch_changes_failed"
	EventRewardParked       = "rewards.reward_parked"
)

const (
	AttrAccount     = "account"
	AttrCurrency    = "currency"
	AttrGroup       = "group"
	AttrFromGroup   = "from_group"
	AttrToGroup     = "to_group"
	AttrAmount      = "amount"
	AttrStake       = "stake"
	AttrWeight      = "weight"
	AttrEpoch       = "epoch"
	AttrEndsAt      = "ends_at"
	AttrReward      = "reward"
	AttrChangeKind  = "change_kind"
	AttrChangeCount = "change_count"
	AttrGroupCount  = "group_count"
	AttrDropped     = "dropped_changes"
	AttrError       = "error"
)
