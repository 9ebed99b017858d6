package announce

import (
	"fmt"
	"sync"

	"github.com/tessro/emcee/internal/core"
)

// fakeDaemon scripts daemon behavior for loop and injector tests.
// statusSeq, when non-empty, feeds Status() one element per call;
// otherwise status is returned as-is.
type fakeDaemon struct {
	mu sync.Mutex

	status    core.PlaybackStatus
	statusSeq []core.PlaybackStatus
	current   core.Track
	songs     map[int]core.Track

	updateJob int
	nextAddID int

	statusCalls int
	updates     []string
	added       []string
	prios       map[int]int // queue id -> priority
}

func newFakeDaemon() *fakeDaemon {
	return &fakeDaemon{
		updateJob: 1,
		nextAddID: 100,
		songs:     make(map[int]core.Track),
		prios:     make(map[int]int),
	}
}

func (d *fakeDaemon) Status() (core.PlaybackStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statusCalls++
	if len(d.statusSeq) > 0 {
		st := d.statusSeq[0]
		d.statusSeq = d.statusSeq[1:]
		return st, nil
	}
	return d.status, nil
}

func (d *fakeDaemon) CurrentSong() (core.Track, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, nil
}

func (d *fakeDaemon) SongByQueueID(id int) (core.Track, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	song, ok := d.songs[id]
	if !ok {
		return core.Track{}, fmt.Errorf("no song with queue id %d", id)
	}
	return song, nil
}

func (d *fakeDaemon) AlbumArt(uri string) ([]byte, error)        { return nil, fmt.Errorf("no art") }
func (d *fakeDaemon) EmbeddedPicture(uri string) ([]byte, error) { return nil, fmt.Errorf("no art") }

func (d *fakeDaemon) Update(uri string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.updates = append(d.updates, uri)
	return d.updateJob, nil
}

func (d *fakeDaemon) AddToQueue(uri string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.added = append(d.added, uri)
	d.nextAddID++
	return d.nextAddID, nil
}

func (d *fakeDaemon) SetPriorityByID(prio, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prios[id] = prio
	return nil
}

func (d *fakeDaemon) MusicDirectory() (string, error) { return "/music", nil }
func (d *fakeDaemon) Ping() error                     { return nil }
func (d *fakeDaemon) Close() error                    { return nil }

func (d *fakeDaemon) addedClips() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.added...)
}

func (d *fakeDaemon) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.statusCalls
}
