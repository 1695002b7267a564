package game

import (
	"context"
	"fmt"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"go.uber.org/zap"
)

func (e *Engine) friendListLocked(ctx context.Context, user string) (*domain.FriendList, error) {
	names, err := e.store.ListFriends(ctx, user)
	if err != nil {
		return nil, storageErr(err)
	}
	incoming, err := e.store.ListFriendRequests(ctx, user)
	if err != nil {
		return nil, storageErr(err)
	}

	list := &domain.FriendList{Friends: make([]domain.Friend, 0, len(names)), Incoming: incoming}
	for _, n := range names {
		_, online := e.sessions[n]
		list.Friends = append(list.Friends, domain.Friend{Username: n, Online: online})
	}
	if list.Incoming == nil {
		list.Incoming = []string{}
	}
	return list, nil
}

func (e *Engine) pushFriendListLocked(ctx context.Context, user string) {
	list, err := e.friendListLocked(ctx, user)
	if err != nil {
		e.log.Error("friend list read failed", zap.String("user", user), zap.Error(err))
		return
	}
	e.send(user, domain.ServerMessage{Type: domain.MsgFriendList, Friends: list})
}

func (e *Engine) Friends(ctx context.Context, user string) (*domain.FriendList, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.friendListLocked(ctx, user)
}

// SendFriendRequest asks to to become from's friend. If to already asked
// from, the two become friends straight away.
func (e *Engine) SendFriendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return fmt.Errorf("%w: cannot befriend yourself", domain.ErrInvalidRequest)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.FindUser(ctx, to); err != nil {
		return storageErr(err)
	}

	friends, err := e.store.AreFriends(ctx, from, to)
	if err != nil {
		return storageErr(err)
	}
	if friends {
		return domain.ErrAlreadyFriends
	}

	pending, err := e.store.HasFriendRequest(ctx, from, to)
	if err != nil {
		return storageErr(err)
	}
	if pending {
		return domain.ErrFriendRequestExists
	}

	reverse, err := e.store.HasFriendRequest(ctx, to, from)
	if err != nil {
		return storageErr(err)
	}
	if reverse {
		return e.befriendLocked(ctx, to, from)
	}

	if err := e.store.AddFriendRequest(ctx, from, to); err != nil {
		return storageErr(err)
	}
	e.send(to, domain.ServerMessage{
		Type:    domain.MsgFriendRequest,
		From:    from,
		Message: fmt.Sprintf("%s sent you a friend request", from),
	})
	return nil
}

func (e *Engine) RespondFriendRequest(ctx context.Context, user, from string, accept bool) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pending, err := e.store.HasFriendRequest(ctx, from, user)
	if err != nil {
		return Outcome{}, storageErr(err)
	}
	if !pending {
		return Outcome{}, domain.ErrNoPendingRequest
	}

	if !accept {
		if err := e.store.DeleteFriendRequest(ctx, from, user); err != nil {
			return Outcome{}, storageErr(err)
		}
		e.pushFriendListLocked(ctx, user)
		return Outcome{Accepted: false, Message: fmt.Sprintf("declined %s", from)}, nil
	}

	if err := e.befriendLocked(ctx, from, user); err != nil {
		return Outcome{}, err
	}
	return Outcome{Accepted: true, Message: fmt.Sprintf("you are now friends with %s", from)}, nil
}

func (e *Engine) befriendLocked(ctx context.Context, requester, accepter string) error {
	if err := e.store.AddFriends(ctx, requester, accepter); err != nil {
		return storageErr(err)
	}
	if err := e.store.DeleteFriendRequest(ctx, requester, accepter); err != nil {
		return storageErr(err)
	}
	e.pushFriendListLocked(ctx, requester)
	e.pushFriendListLocked(ctx, accepter)
	return nil
}
