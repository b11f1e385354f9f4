package store

import (
	"context"
	"net/http"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/bytedance/sonic"
)

func (c *Client) tablePath() string {
	return restPrefix + c.cfg.Table
}

// Select 查询笔记
func (c *Client) Select(ctx context.Context, q domain.NoteQuery) ([]*domain.Note, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   c.tablePath(),
		query:  encodeQuery(q),
		bearer: token,
	})
	if err != nil {
		return nil, remoteError("select", err)
	}

	var rows []*dto.NoteDTO
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return nil, code.ErrorRemoteOperation.Clone().WithDetails("select", "decode rows").WithCause(err)
	}
	notes := make([]*domain.Note, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, r.ToDomain())
	}
	return notes, nil
}

// Insert 批量插入笔记
func (c *Client) Insert(ctx context.Context, notes []*domain.Note) error {
	if len(notes) == 0 {
		return nil
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	rows := make([]*dto.NoteInsertRequest, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, dto.NoteInsertFromDomain(n))
	}
	_, err = c.do(ctx, request{
		method: http.MethodPost,
		path:   c.tablePath(),
		body:   rows,
		bearer: token,
		prefer: "return=minimal",
	})
	return remoteError("insert", err)
}

// Update 按条件更新笔记
func (c *Client) Update(ctx context.Context, patch *domain.NotePatch, filter domain.NoteFilter) error {
	if filter.IsEmpty() {
		return code.ErrorInvalidParams.Clone().WithDetails("update requires a row filter")
	}
	if patch.IsEmpty() {
		return nil
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{
		method: http.MethodPatch,
		path:   c.tablePath(),
		query:  encodeFilter(filter),
		body:   dto.NotePatchFromDomain(patch),
		bearer: token,
		prefer: "return=minimal",
	})
	return remoteError("update", err)
}

// Delete 按条件删除笔记
func (c *Client) Delete(ctx context.Context, filter domain.NoteFilter) error {
	if filter.IsEmpty() {
		return code.ErrorInvalidParams.Clone().WithDetails("delete requires a row filter")
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{
		method: http.MethodDelete,
		path:   c.tablePath(),
		query:  encodeFilter(filter),
		bearer: token,
		prefer: "return=minimal",
	})
	return remoteError("delete", err)
}
