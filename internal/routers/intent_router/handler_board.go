package intent_router

import (
	"context"
	"strings"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/render"
)

// list applies the optional view, sort and search of req, reloads the board and renders it.
func (r *Router) list(ctx context.Context, req *Request) error {
	v := r.app.View
	if req.Search != nil {
		v.SetSearch(*req.Search)
	}

	// 视图与排序一起切换，只拉取一次
	if req.View != "" || req.Sort != "" {
		if err := v.Apply(ctx, domain.ViewMode(req.View), domain.SortMode(req.Sort)); err != nil {
			return err
		}
	} else if err := v.Refresh(ctx); err != nil {
		return err
	}
	return r.printBoard(req)
}

func (r *Router) view(ctx context.Context, req *Request) error {
	if err := r.app.View.SetViewMode(ctx, domain.ViewMode(req.View)); err != nil {
		return err
	}
	return r.printBoard(req)
}

// search 只过滤已加载的笔记，不重新拉取
func (r *Router) search(ctx context.Context, req *Request) error {
	q := ""
	if req.Search != nil {
		q = *req.Search
	}
	r.app.View.SetSearch(q)
	return r.printBoard(req)
}

func (r *Router) sortNotes(ctx context.Context, req *Request) error {
	if err := r.app.View.SetSort(ctx, domain.SortMode(req.Sort)); err != nil {
		return err
	}
	return r.printBoard(req)
}

func (r *Router) refresh(ctx context.Context, req *Request) error {
	if err := r.app.View.Refresh(ctx); err != nil {
		return err
	}
	return r.printBoard(req)
}

// printBoard 输出当前可见的笔记
func (r *Router) printBoard(req *Request) error {
	notes, hasQuery := r.app.View.VisibleNotes()
	st := r.app.View.State()
	list := render.Build(render.Input{
		Notes:       notes,
		Total:       st.Total,
		ViewMode:    st.Mode,
		SearchQuery: st.Search,
		HasQuery:    hasQuery,
		SortMode:    st.Sort,
		CurrentUser: st.UserID,
		Now:         r.now(),
	})
	if req.JSON {
		return render.FprintJSON(r.out, list)
	}
	return render.Fprint(r.out, list)
}

func (r *Router) currentUID(ctx context.Context) (string, error) {
	session, err := r.app.Auth.GetSession(ctx)
	if err != nil {
		return "", err
	}
	return session.UserID(), nil
}

func (r *Router) show(ctx context.Context, req *Request) error {
	note, err := r.app.View.Lookup(ctx, req.ID)
	if err != nil {
		return err
	}
	uid, err := r.currentUID(ctx)
	if err != nil {
		return err
	}
	return render.FprintCard(r.out, render.BuildCard(note, uid, r.now(), nil))
}

func (r *Router) newNote(ctx context.Context, req *Request) error {
	ed := r.app.Editor
	if err := ed.Open(ctx, nil); err != nil {
		return err
	}
	// 保存成功后会话已关闭，Close 可重复调用
	defer ed.Close()

	if err := r.applyNote(ctx, req.Note); err != nil {
		return err
	}
	if err := ed.Save(ctx); err != nil {
		return err
	}
	r.printf("Note saved.\n")
	return nil
}

func (r *Router) edit(ctx context.Context, req *Request) error {
	note, err := r.app.View.Lookup(ctx, req.ID)
	if err != nil {
		return err
	}
	ed := r.app.Editor
	if err := ed.Open(ctx, note); err != nil {
		return err
	}
	defer ed.Close()

	if err := r.applyNote(ctx, req.Note); err != nil {
		return err
	}
	if err := ed.Save(ctx); err != nil {
		return err
	}
	r.printf("Note %s saved.\n", note.ID)
	return nil
}

// applyNote 将命令提供的字段写入编辑草稿
func (r *Router) applyNote(ctx context.Context, in NoteInput) error {
	ed := r.app.Editor
	setters := []struct {
		set bool
		fn  func() error
	}{
		{in.Title != nil, func() error { return ed.SetTitle(*in.Title) }},
		{in.Content != nil, func() error { return ed.SetContent(*in.Content) }},
		{in.Tags != nil, func() error { return ed.SetTags(*in.Tags) }},
		{in.Pinned != nil, func() error { return ed.SetPinned(*in.Pinned) }},
		{in.Public != nil, func() error { return ed.SetPublic(*in.Public) }},
		{in.Color != nil, func() error { return ed.SetColor(*in.Color) }},
		{in.ClearImage, ed.ClearImage},
		{!in.ClearImage && strings.TrimSpace(in.Image) != "", func() error {
			return ed.AttachImageFile(ctx, strings.TrimSpace(in.Image))
		}},
	}
	for _, s := range setters {
		if !s.set {
			continue
		}
		if err := s.fn(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) pin(ctx context.Context, req *Request) error {
	note, err := r.app.View.Lookup(ctx, req.ID)
	if err != nil {
		return err
	}
	if err := r.app.View.TogglePin(ctx, note.ID); err != nil {
		return err
	}
	if note.Pinned {
		r.printf("Unpinned %s\n", note.ID)
	} else {
		r.printf("Pinned %s\n", note.ID)
	}
	return nil
}

func (r *Router) deleteNote(ctx context.Context, req *Request) error {
	if err := r.app.View.DeleteNote(ctx, req.ID, r.confirmer(req)); err != nil {
		return err
	}
	r.printf("Deleted %s\n", strings.TrimSpace(req.ID))
	return nil
}
