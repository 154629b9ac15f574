package analysis

import "context"

// localAnalysis is the deterministic substitute returned when no network
// provider is usable. It is clearly labeled as locally generated so the
// feature stays usable without any credential.
const localAnalysis = `[Locally generated analysis - no AI provider configured]

**Cognitive patterns**
Writing the reflection down is itself the work: naming what energized you and
what drained you turns a blur of a day into something you can reason about.
Notice which fields came easily and which stayed blank - the blanks often mark
the places attention avoids.

**Time**
Compare where your hours actually went against where you intended them to go.
One honest observation about a recurring time leak is worth more than a dozen
resolutions.

**Growth**
Anything you recorded under the breakthrough fields - a new habit or an old
pattern caught in the act - is evidence that you are watching yourself learn.
Keep the loop small: one trap to sidestep tomorrow, one seed to plant.

**Keep going**
A reflection written is a day examined. Streaks are built one honest entry at
a time - see you tomorrow.`

// LocalProvider terminates the fallback chain. It is always configured and
// never touches the network.
type LocalProvider struct{}

// NewLocalProvider constructs the local substitute provider.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

// Name implements Provider.
func (p *LocalProvider) Name() string {
	return "local"
}

// Configured implements Provider. The local substitute is always usable.
func (p *LocalProvider) Configured() bool {
	return true
}

// Invoke implements Provider.
func (p *LocalProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	return localAnalysis, nil
}
