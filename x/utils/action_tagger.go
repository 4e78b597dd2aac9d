package utils

import (
	"github.com/iov-one/escrowd"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key holding the message path, for example
// action='sale/settle'. Clients subscribe to settlements with it.
const ActionKey = "action"

// ActionTagger tags every successful delivery with the path of its message.
// Failed and checked transactions are never tagged.
type ActionTagger struct{}

var _ escrowd.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	// A tx without a message cannot be tagged, fail before any write.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	tag := common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())}
	res.Tags = append(res.Tags, tag)
	return res, nil
}
