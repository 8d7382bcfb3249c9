package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"sync"

	"github.com/entrypass/entrypass/internal/arrivalwindow"
	"github.com/entrypass/entrypass/internal/authority"
	"github.com/entrypass/entrypass/internal/config"
	"github.com/entrypass/entrypass/internal/logging"
	"github.com/entrypass/entrypass/internal/models"
	"github.com/entrypass/entrypass/internal/photostore"
	"github.com/entrypass/entrypass/internal/services"
	"github.com/entrypass/entrypass/internal/store"
)

// App wires the record store, the services, and the interactive loop.
type App struct {
	config      *config.Config
	db          *sql.DB
	records     *services.RecordService
	submissions *services.SubmissionService
	photos      *photostore.Store
	log         logging.Logger
	reader      *bufio.Reader
	watcher     *arrivalwindow.Scheduler

	// lastWindow is the last window state the watcher announced; shared
	// between the REPL and the timer goroutine.
	windowMu   sync.Mutex
	lastWindow arrivalwindow.State

	user *models.User
	rec  *models.EntryRecord
}

// NewApp opens the database, runs migrations, and builds the service stack.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewDefault()

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "err", err)
		return nil, err
	}

	repos := store.NewRepositories(db)
	rs := services.NewRecordService(db, repos, log)

	client := authority.NewClient(cfg.AuthorityBaseURL, cfg.AuthorityLanguage,
		cfg.RequestTimeout, uint64(cfg.MaxRetries), log)
	ss := services.NewSubmissionService(db, repos, rs, client, log)

	photos := photostore.New(photostore.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})

	return &App{
		config:      cfg,
		db:          db,
		records:     rs,
		submissions: ss,
		photos:      photos,
		log:         log,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

// Run resolves the device user and the working entry record, then hands
// control to the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()

	user, err := a.records.EnsureUser(ctx)
	if err != nil {
		return err
	}
	a.user = user

	rec, err := a.records.EnsureEntryRecord(ctx, user.ID, a.config.Destination)
	if err != nil {
		return err
	}
	a.rec = rec

	a.startWindowWatcher(ctx)
	defer a.watcher.Stop()

	printlnFn("Welcome to EntryPass (type 'help' for commands)")
	a.Root(ctx)
	return nil
}

func (a *App) destination() string {
	return a.config.Destination
}

// refreshRecord reloads the working record so the prompt reflects writes
// made during the previous command.
func (a *App) refreshRecord(ctx context.Context) {
	rec, err := a.records.EnsureEntryRecord(ctx, a.user.ID, a.config.Destination)
	if err == nil {
		a.rec = rec
	}
}
