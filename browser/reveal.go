package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// maxStagnantScrolls is how many unchanged heights ScrollToBottom tolerates.
const maxStagnantScrolls = 3

// ScrollToBottom scrolls the window to the bottom of the document so lazy
// content renders. The loop ends once the height has been seen unchanged
// more than three times, or right after a scroll that changed the height.
// It returns the number of scroll rounds performed.
func ScrollToBottom(ctx context.Context, page Page, ready ReadyOptions) int {
	complete := ready
	complete.Target = StateComplete
	if _, err := WaitReady(ctx, page, complete); err != nil {
		logrus.Warnf("scroll: %v", err)
	}

	last, err := documentHeight(ctx, page)
	if err != nil {
		logrus.Warnf("scroll: initial height: %v", err)
	}

	rounds, stagnant := 0, 0
	for ctx.Err() == nil {
		rounds++
		if err := page.Evaluate(ctx, "window.scrollTo(0, document.body.scrollHeight)", nil); err != nil {
			logrus.Warnf("scroll: scroll to bottom: %v", err)
		}
		if _, err := WaitReady(ctx, page, ready); err != nil {
			logrus.Warnf("scroll: %v", err)
		}

		height, err := documentHeight(ctx, page)
		if err != nil {
			logrus.Warnf("scroll: new height: %v", err)
		}

		if height == last {
			stagnant++
		}
		if stagnant > maxStagnantScrolls || height != last {
			break
		}
		last = height
	}
	return rounds
}

func documentHeight(ctx context.Context, page Page) (int, error) {
	var h float64
	if err := page.Evaluate(ctx, "document.body.scrollHeight", &h); err != nil {
		return 0, err
	}
	return int(h), nil
}

// ScrollIntoView brings the first element matching each locator into the
// viewport. Missing elements and script failures are logged and skipped;
// the hints are advisory.
func ScrollIntoView(ctx context.Context, page Page, ready ReadyOptions, locators ...string) {
	if _, err := WaitReady(ctx, page, ready); err != nil {
		logrus.Debugf("scroll into view: %v", err)
	}
	for _, loc := range locators {
		err := page.ScrollIntoView(ctx, loc)
		switch {
		case err == nil:
		case errors.Is(err, ErrNotFound):
			logrus.Debugf("scroll into view: no element for %s", loc)
		default:
			logrus.Warnf("scroll into view %s: %v", loc, err)
		}
	}
}

// HideElements sets display:none on the first element of each class, used
// for overlays that intercept clicks.
func HideElements(ctx context.Context, page Page, classes ...string) {
	if len(classes) == 0 {
		return
	}
	list, err := json.Marshal(classes)
	if err != nil {
		return
	}
	script := fmt.Sprintf(`(() => {
	const cls = %s;
	for (const c of cls) {
		const t = document.querySelector("." + c);
		if (t && t.style) t.style.display = "none";
	}
})()`, list)
	if err := page.Evaluate(ctx, script, nil); err != nil {
		logrus.Warnf("hide elements %v: %v", classes, err)
	}
}
