// Package journal implements the food journal screen logic for one
// signed-in user: listing entries with a category filter, the create/edit
// form, confirmed deletion and picking an image for the form.
//
// Every successful write is followed by a full re-fetch of the user's
// entries; the in-memory list is never patched from a write's result.
//
//	flow, err := journal.NewFlow(entriesRepo, userID)
//	err = flow.Refresh(ctx)
//	err = flow.PickImage(ctx, source, journal.ImageRequest{Origin: journal.OriginGallery})
//	flow.SetDescription("Oatmeal")
//	err = flow.Save(ctx)
package journal
