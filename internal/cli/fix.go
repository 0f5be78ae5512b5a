package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/georgettica/contact-fixer/internal/fixer"
)

type fixOptions struct {
	filter     string
	filterSet  bool
	replace    string
	replaceSet bool
	yes        bool
	dryRun     bool
}

func validatePattern(s string) error {
	_, err := fixer.CompilePattern(s)
	return err
}

// runFix fetches the contacts, shows the ones matching the filter, previews
// the rewrite and uploads the changed contacts once confirmed
func (a *app) runFix(ctx context.Context, opts fixOptions) error {
	backend, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	proc, err := fixer.New(backend, a.out,
		fixer.WithLogger(a.logger),
		fixer.WithPageSize(a.cfg.Directory.PageSize))
	if err != nil {
		return err
	}

	contacts, err := proc.FetchContacts(ctx)
	if err != nil {
		return err
	}

	pattern := opts.filter
	if !opts.filterSet {
		// The prompt keeps asking until the pattern compiles
		pattern, err = a.prompter.Ask("What filter do you want to run?", a.cfg.Prompt.DefaultFilter, validatePattern)
		if err != nil {
			return err
		}
	}

	matches, err := proc.FilterByPhone(contacts, pattern)
	if err != nil {
		return err
	}
	proc, err = proc.WithFilter(pattern)
	if err != nil {
		return err
	}

	proc.RenderAll(matches)
	if len(matches) == 0 {
		return nil
	}

	replacement := opts.replace
	if !opts.replaceSet {
		replacement, err = a.prompter.Ask("What do you want to replace the matches with?", a.cfg.Prompt.DefaultReplacement, nil)
		if err != nil {
			return err
		}
	}

	changes, err := proc.PlanSubstitution(matches, replacement)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Fprintln(a.out, "No phone numbers would change")
		return nil
	}

	changed := fixer.ChangedContacts(changes)
	fmt.Fprintf(a.out, "%d phone numbers in %d contacts will change:\n", len(changes), len(changed))
	proc.RenderChanges(changes)

	if opts.dryRun {
		fmt.Fprintln(a.out, "Dry run, nothing uploaded")
		return nil
	}

	if !opts.yes {
		ok, err := a.prompter.Confirm(fmt.Sprintf("Upload %d contacts?", len(changed)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Nothing uploaded")
			return nil
		}
	}

	if _, err := proc.ApplySubstitution(matches, replacement); err != nil {
		return err
	}

	// Sequential uploads, spaced out to stay under the directory's rate limits
	for i, c := range changed {
		if i > 0 {
			if err := a.sleep(ctx, a.cfg.Directory.UploadDelay.Duration); err != nil {
				return fmt.Errorf("uploaded %d of %d contacts: %w", i, len(changed), err)
			}
		}
		if err := proc.UploadContact(ctx, c); err != nil {
			return fmt.Errorf("uploaded %d of %d contacts: %w", i, len(changed), err)
		}
	}

	a.logger.Info("upload finished", zap.Int("contacts", len(changed)))
	fmt.Fprintf(a.out, "Uploaded %d contacts\n", len(changed))
	return nil
}
