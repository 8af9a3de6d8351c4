package dashboard

import (
	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/session"
	"github.com/trezcool/classwork/core/store"
)

// ResetOnLogout empties both stores whenever the session ends, so that
// nothing from the previous user stays visible.
func ResetOnLogout(sess *session.Store, assignments *store.Assignments, cache *store.StudentCache, logger core.Logger) {
	sess.OnLogout(func(reason session.Reason) {
		assignments.Reset()
		cache.Reset()
		logger.Info("session ended", map[string]interface{}{"reason": reason.String()})
	})
}
