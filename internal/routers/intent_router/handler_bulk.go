package intent_router

import (
	"context"
	"os"
	"strings"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/fileurl"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

func (r *Router) export(ctx context.Context, req *Request) error {
	res, err := r.app.Bulk.Export(ctx)
	if err != nil {
		return err
	}

	target := strings.TrimSpace(req.File)
	if target == "" || target == "-" {
		_, err := r.out.Write(append(res.Data, '\n'))
		return err
	}
	if err := fileurl.WriteFileAtomic(target, res.Data, 0600); err != nil {
		return code.ErrorServerInternal.Clone().WithDetails("write export file").WithCause(err)
	}
	r.printf("Exported %s to %s (%s)\n",
		plural(res.Count, "note"), target, humanize.Bytes(uint64(len(res.Data))))
	return nil
}

func (r *Router) importNotes(ctx context.Context, req *Request) error {
	src := strings.TrimSpace(req.File)
	if src == "" {
		return code.ErrorInvalidParams.Clone().WithDetails("an import file is required")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return code.ErrorImportParse.Clone().WithDetails(errors.Wrap(err, "read import file").Error()).WithCause(err)
	}

	mode := domain.ImportMode(strings.ToLower(strings.TrimSpace(req.Mode)))
	if mode == "" {
		mode = domain.ImportMerge
	}

	res, err := r.app.Bulk.Import(ctx, data, mode, r.confirmer(req))
	if err != nil {
		if res != nil && res.Partial() {
			r.printf("Imported %s before batch %d failed.\n", plural(res.Inserted, "note"), res.FailedBatch)
		}
		return err
	}
	r.printf("Imported %s in %s.\n", plural(res.Inserted, "note"), plural(res.Batches, "batch"))
	return nil
}

func (r *Router) clear(ctx context.Context, req *Request) error {
	if err := r.app.Bulk.ClearAll(ctx, r.confirmer(req)); err != nil {
		return err
	}
	r.printf("All of your notes were deleted.\n")
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	if strings.HasSuffix(word, "ch") {
		return humanize.Comma(int64(n)) + " " + word + "es"
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
