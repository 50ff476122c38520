package watch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"mrboard/internal/cli/list"
	"mrboard/internal/cli/paramutils"
	"mrboard/internal/cli/utils"
	"mrboard/internal/clientutils"
	"mrboard/internal/domain/mergerequest"
	"mrboard/internal/errcodes"

	"github.com/gosuri/uilive"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	defaultInterval = 30 * time.Second
	stampFormat     = "15:04:05"
)

var now = time.Now

type watcher struct {
	mu          sync.Mutex
	out         io.Writer
	loader      mergerequest.Loader
	load        mergerequest.LoadFunc
	withProject bool
	renders     int
	running     int
	superseded  int
}

func (w *watcher) apply(entities []*mergerequest.Entity, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.renders++
	stamp := now().Format(stampFormat)
	if err != nil {
		fmt.Fprintf(w.out, "%s  refresh failed: %v\n", stamp, err)
		return
	}

	fmt.Fprintf(w.out, "%s  %d merge requests\n%s", stamp, len(entities), utils.MergeRequestTable(entities, w.withProject))
}

func (w *watcher) tick(ctx context.Context, wg *sync.WaitGroup) {
	w.mu.Lock()
	if w.running > 0 {
		w.superseded++
		log.Warn().Msg("previous refresh still running, cancelling it; consider a longer --interval")
	}
	w.running++
	w.mu.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.loader.Run(ctx, w.load, w.apply)

		w.mu.Lock()
		w.running--
		w.mu.Unlock()
	}()
}

// run refreshes every interval until ctx is done. A refresh still running
// when the next one starts is cancelled and never rendered.
func (w *watcher) run(ctx context.Context, interval time.Duration) error {
	var wg sync.WaitGroup
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.tick(ctx, &wg)
	for {
		select {
		case <-ctx.Done():
			w.loader.Stop()
			wg.Wait()
			return mergerequest.ErrCancelled
		case <-ticker.C:
			w.tick(ctx, &wg)
		}
	}
}

// minInterval is the longest query budget of the planned listing. A shorter
// interval cancels every refresh before it can finish.
func minInterval(f mergerequest.Filter, project string) time.Duration {
	scope := mergerequest.AllProjects
	if project != "" {
		scope = mergerequest.SingleProject(project)
	}

	longest := time.Second
	for _, q := range mergerequest.BuildQueries(&f, scope, f.IsSpecific()) {
		if q.Timeout > longest {
			longest = q.Timeout
		}
	}

	return longest
}

func validateInterval(interval time.Duration, f mergerequest.Filter, project string) error {
	floor := minInterval(f, project)
	if interval < floor {
		return errors.Wrapf(errcodes.ErrInvalidInterval, "%s is below %s", interval, floor)
	}

	return nil
}

func newWatcher(l list.Lister, f mergerequest.Filter, project string, out io.Writer) *watcher {
	return &watcher{
		out:         out,
		withProject: project == "",
		load: func(ctx context.Context) ([]*mergerequest.Entity, error) {
			return list.Fetch(ctx, l, f, project)
		},
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	flags := paramutils.NewFlagRepo(cmd.Flags())

	params := &list.Params{}
	err := list.FillParams(flags, params)
	if err != nil {
		return err
	}

	err = list.ValidateParams(params)
	if err != nil {
		return err
	}

	svc, cl, err := clientutils.ClientFactory{}.DefaultListService(utils.Config())
	if err != nil {
		return err
	}

	project := list.ResolveProject(params, cl.URL)
	interval := flags.GetDurationOrDefault("interval", defaultInterval)
	err = validateInterval(interval, params.Filter, project)
	if err != nil {
		return err
	}

	writer := uilive.New()
	writer.Out = cmd.OutOrStdout()
	writer.Start()
	defer writer.Stop()

	return newWatcher(svc, params.Filter, project, writer).run(cmd.Context(), interval)
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep a merge request list up to date",
		Long: `Re-runs list on an interval and redraws the result in place. Accepts
the same flags as list.`,
		Args: cobra.NoArgs,
		Run:  utils.RunCommandWrapper(runCmd),
	}

	list.SetUpFlags(cmd)
	cmd.Flags().Duration("interval", defaultInterval, "time between refreshes")

	return cmd
}
