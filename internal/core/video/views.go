// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import "context"

// ViewRegistry remembers which viewer watched which video recently.
type ViewRegistry interface {
	/*
		Mark records the view and reports whether it is the first one inside
		the current window.

		Parameters:
		  - context: context.Context
		  - videoID: string
		  - viewer: string (Actor id, or a fingerprint for anonymous viewers)

		Returns:
		  - bool: true when the view should be counted
		  - error: Registry failures; callers count the view anyway
	*/
	Mark(context context.Context, videoID, viewer string) (bool, error)
}
