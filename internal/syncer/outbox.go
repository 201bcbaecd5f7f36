package syncer

import "github.com/julianstephens/noor/internal/models"

type jobKind int

const (
	jobPush jobKind = iota
	jobDelete
)

type job struct {
	kind jobKind
	id   string
	user models.UserRecord
}

// outbox is a FIFO of remote operations with at most one entry per user.
// A newer operation for a queued user replaces the older one in place.
type outbox struct {
	order []string
	jobs  map[string]job
}

func newOutbox() *outbox {
	return &outbox{jobs: make(map[string]job)}
}

func (o *outbox) put(j job) {
	if _, queued := o.jobs[j.id]; !queued {
		o.order = append(o.order, j.id)
	}
	o.jobs[j.id] = j
}

func (o *outbox) pushUser(u models.UserRecord) {
	o.put(job{kind: jobPush, id: u.Profile.ID, user: u})
}

func (o *outbox) deleteUser(id string) {
	o.put(job{kind: jobDelete, id: id})
}

func (o *outbox) pop() (job, bool) {
	if len(o.order) == 0 {
		return job{}, false
	}
	id := o.order[0]
	o.order = o.order[1:]
	j := o.jobs[id]
	delete(o.jobs, id)
	return j, true
}

func (o *outbox) len() int {
	return len(o.order)
}
