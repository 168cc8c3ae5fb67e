package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Rahanur19/youStream/internal/config"
	"github.com/Rahanur19/youStream/internal/metrics"
	"github.com/Rahanur19/youStream/internal/model"
)

// =============================================================================
// IN-MEMORY STORE
// =============================================================================
//
// memStore stands in for PostgreSQL. Like the real schema, deleting a row
// that is still referenced fails instead of cascading, so a cascade plan
// that runs its steps in the wrong order fails the test. WithinTx restores a
// snapshot when fn returns an error.

var errForeignKey = errors.New("foreign key violation")

type subKey struct{ subscriber, channel string }

type memStore struct {
	mu        sync.Mutex
	users     map[string]model.User
	videos    map[string]model.Video
	posts     map[string]model.CommunityPost
	comments  map[string]model.Comment
	likes     map[string]model.Like
	playlists map[string]model.Playlist
	subs      map[subKey]time.Time
	history   map[string][]string // user -> video IDs, most recent first
	seq       int
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]model.User{},
		videos:    map[string]model.Video{},
		posts:     map[string]model.CommunityPost{},
		comments:  map[string]model.Comment{},
		likes:     map[string]model.Like{},
		playlists: map[string]model.Playlist{},
		subs:      map[subKey]time.Time{},
		history:   map[string][]string{},
	}
}

func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", s.seq)
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.videos {
		c.videos[k] = v
	}
	for k, v := range s.posts {
		c.posts[k] = v
	}
	for k, v := range s.comments {
		c.comments[k] = v
	}
	for k, v := range s.likes {
		c.likes[k] = v
	}
	for k, v := range s.playlists {
		v.Videos = append([]string(nil), v.Videos...)
		c.playlists[k] = v
	}
	for k, v := range s.subs {
		c.subs[k] = v
	}
	for k, v := range s.history {
		c.history[k] = append([]string(nil), v...)
	}
	c.seq = s.seq
	return c
}

func (s *memStore) restore(snap *memStore) {
	s.users, s.videos, s.posts = snap.users, snap.videos, snap.posts
	s.comments, s.likes, s.playlists = snap.comments, snap.likes, snap.playlists
	s.subs, s.history = snap.subs, snap.history
}

func (s *memStore) likesOn(target model.ContentRef) int64 {
	var n int64
	for _, l := range s.likes {
		if l.Target() == target {
			n++
		}
	}
	return n
}

func (s *memStore) commentsOn(parent model.ContentRef) []string {
	var ids []string
	for id, c := range s.comments {
		if c.Parent() == parent {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

type memTx struct {
	s       *memStore
	commits int
}

func (t *memTx) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	t.s.mu.Lock()
	snap := t.s.snapshot()
	t.s.mu.Unlock()

	if err := fn(nil); err != nil {
		t.s.mu.Lock()
		t.s.restore(snap)
		t.s.mu.Unlock()
		return err
	}
	t.commits++
	return nil
}

// =============================================================================
// USERS
// =============================================================================

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if other.Username == u.Username {
			return model.ErrUsernameExists
		}
		if other.Email == u.Email {
			return model.ErrEmailExists
		}
	}
	if u.ID == "" {
		u.ID = r.s.nextID()
	}
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) find(match func(model.User) bool) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r memUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username })
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r memUsers) update(id string, fn func(u *model.User) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	if err := fn(&u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

func (r memUsers) UpdateAccount(ctx context.Context, id string, fullName, email *string) (*model.User, error) {
	err := r.update(id, func(u *model.User) error {
		if email != nil {
			for _, other := range r.s.users {
				if other.ID != id && other.Email == *email {
					return model.ErrEmailExists
				}
			}
			u.Email = *email
		}
		if fullName != nil {
			u.FullName = *fullName
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r memUsers) UpdatePassword(ctx context.Context, id, passwordHashed string) error {
	return r.update(id, func(u *model.User) error { u.PasswordHashed = passwordHashed; return nil })
}

func (r memUsers) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.update(id, func(u *model.User) error { u.AvatarURL = avatarURL; return nil })
}

func (r memUsers) UpdateCoverImage(ctx context.Context, id string, coverURL *string) error {
	return r.update(id, func(u *model.User) error { u.CoverImageURL = coverURL; return nil })
}

func (r memUsers) SetRefreshToken(ctx context.Context, id string, token *string) error {
	return r.update(id, func(u *model.User) error { u.RefreshToken = token; return nil })
}

func (r memUsers) SwapRefreshToken(ctx context.Context, id, oldToken, newToken string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != oldToken {
		return false, nil
	}
	u.RefreshToken = &newToken
	r.s.users[id] = u
	return true, nil
}

func (r memUsers) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h := []string{videoID}
	for _, id := range r.s.history[userID] {
		if id != videoID {
			h = append(h, id)
		}
	}
	r.s.history[userID] = h
	return nil
}

func (r memUsers) GetWatchHistory(ctx context.Context, userID string, limit int) ([]model.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	videos := []model.Video{}
	for _, id := range r.s.history[userID] {
		if len(videos) == limit {
			break
		}
		if v, ok := r.s.videos[id]; ok {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func (r memUsers) DeleteWatchHistoryByVideo(ctx context.Context, tx *sqlx.Tx, videoID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for user, h := range r.s.history {
		kept := h[:0:0]
		for _, id := range h {
			if id == videoID {
				n++
				continue
			}
			kept = append(kept, id)
		}
		r.s.history[user] = kept
	}
	return n, nil
}

// =============================================================================
// VIDEOS AND COMMUNITY POSTS
// =============================================================================

type memVideos struct{ s *memStore }

func (r memVideos) Create(ctx context.Context, v *model.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.CreatedAt, v.UpdatedAt = time.Now(), time.Now()
	r.s.videos[v.ID] = *v
	return nil
}

func (r memVideos) GetByID(ctx context.Context, id string) (*model.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return nil, model.ErrVideoNotFound
	}
	return &v, nil
}

func (r memVideos) Exists(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.videos[id]
	return ok, nil
}

func (r memVideos) List(ctx context.Context, q model.VideoQuery) ([]model.Video, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []model.Video
	for _, v := range r.s.videos {
		if q.OwnerID != "" && v.Owner != q.OwnerID {
			continue
		}
		if !v.IsPublished && (q.OwnerID == "" || q.OwnerID != q.ViewerID) {
			continue
		}
		if q.Query != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(q.Query)) {
			continue
		}
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := (q.Page - 1) * q.Limit
	videos := []model.Video{}
	for i := start; i < len(all) && i < start+q.Limit; i++ {
		videos = append(videos, all[i])
	}
	return videos, int64(len(all)), nil
}

func (r memVideos) ListByOwner(ctx context.Context, ownerID string) ([]model.Video, error) {
	return r.listWhere(func(v model.Video) bool { return v.Owner == ownerID }), nil
}

func (r memVideos) listWhere(match func(model.Video) bool) []model.Video {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	videos := []model.Video{}
	for _, v := range r.s.videos {
		if match(v) {
			videos = append(videos, v)
		}
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].ID < videos[j].ID })
	return videos
}

func (r memVideos) Update(ctx context.Context, v *model.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.videos[v.ID]
	if !ok {
		return model.ErrVideoNotFound
	}
	v.IsPublished = stored.IsPublished
	v.UpdatedAt = time.Now()
	r.s.videos[v.ID] = *v
	return nil
}

func (r memVideos) TogglePublish(ctx context.Context, id string) (*model.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return nil, model.ErrVideoNotFound
	}
	v.IsPublished = !v.IsPublished
	v.UpdatedAt = time.Now()
	r.s.videos[id] = v
	return &v, nil
}

func (r memVideos) IncrementViews(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v := r.s.videos[id]
	v.Views++
	r.s.videos[id] = v
	return nil
}

func (r memVideos) ChannelStats(ctx context.Context, ownerID string) (*model.ChannelStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := &model.ChannelStats{}
	for _, v := range r.s.videos {
		if v.Owner != ownerID {
			continue
		}
		stats.TotalVideos++
		stats.TotalViews += v.Views
		stats.TotalLikes += r.s.likesOn(v.Ref())
	}
	return stats, nil
}

func (r memVideos) Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return 0, nil
	}
	if r.s.likesOn(v.Ref()) > 0 || len(r.s.commentsOn(v.Ref())) > 0 {
		return 0, errForeignKey
	}
	for _, p := range r.s.playlists {
		if p.Contains(id) {
			return 0, errForeignKey
		}
	}
	for _, h := range r.s.history {
		for _, vid := range h {
			if vid == id {
				return 0, errForeignKey
			}
		}
	}
	delete(r.s.videos, id)
	return 1, nil
}

type memPosts struct{ s *memStore }

func (r memPosts) Create(ctx context.Context, p *model.CommunityPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	r.s.posts[p.ID] = *p
	return nil
}

func (r memPosts) GetByID(ctx context.Context, id string) (*model.CommunityPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, model.ErrCommunityPostNotFound
	}
	return &p, nil
}

func (r memPosts) Exists(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.posts[id]
	return ok, nil
}

func (r memPosts) ListByOwner(ctx context.Context, ownerID string) ([]model.CommunityPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	posts := []model.CommunityPost{}
	for _, p := range r.s.posts {
		if p.Owner == ownerID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (r memPosts) Update(ctx context.Context, p *model.CommunityPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[p.ID]; !ok {
		return model.ErrCommunityPostNotFound
	}
	p.UpdatedAt = time.Now()
	r.s.posts[p.ID] = *p
	return nil
}

func (r memPosts) Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return 0, nil
	}
	if r.s.likesOn(p.Ref()) > 0 || len(r.s.commentsOn(p.Ref())) > 0 {
		return 0, errForeignKey
	}
	delete(r.s.posts, id)
	return 1, nil
}

// =============================================================================
// COMMENTS AND LIKES
// =============================================================================

type memComments struct{ s *memStore }

func (r memComments) Create(ctx context.Context, c *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	r.s.comments[c.ID] = *c
	return nil
}

func (r memComments) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	return &c, nil
}

func (r memComments) Exists(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.comments[id]
	return ok, nil
}

func (r memComments) ListByParent(ctx context.Context, parent model.ContentRef, page, limit int) ([]model.Comment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := r.s.commentsOn(parent)
	comments := []model.Comment{}
	for i := (page - 1) * limit; i < len(ids) && i < page*limit; i++ {
		comments = append(comments, r.s.comments[ids[i]])
	}
	return comments, int64(len(ids)), nil
}

func (r memComments) UpdateContent(ctx context.Context, id, content string) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	r.s.comments[id] = c
	return &c, nil
}

func (r memComments) ListIDsByParent(ctx context.Context, tx *sqlx.Tx, parent model.ContentRef) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.commentsOn(parent), nil
}

func (r memComments) DeleteByParent(ctx context.Context, tx *sqlx.Tx, parent model.ContentRef) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := r.s.commentsOn(parent)
	for _, id := range ids {
		if r.s.likesOn(model.ContentRef{Kind: model.ContentComment, ID: id}) > 0 {
			return 0, errForeignKey
		}
	}
	for _, id := range ids {
		delete(r.s.comments, id)
	}
	return int64(len(ids)), nil
}

func (r memComments) Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return 0, nil
	}
	if r.s.likesOn(model.ContentRef{Kind: model.ContentComment, ID: id}) > 0 {
		return 0, errForeignKey
	}
	delete(r.s.comments, id)
	return 1, nil
}

type memLikes struct{ s *memStore }

func (r memLikes) Create(ctx context.Context, l *model.Like) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.likes {
		if other.Target() == l.Target() && other.LikedBy == l.LikedBy {
			return false, nil
		}
	}
	if l.ID == "" {
		l.ID = r.s.nextID()
	}
	l.CreatedAt = time.Now()
	r.s.likes[l.ID] = *l
	return true, nil
}

func (r memLikes) Delete(ctx context.Context, target model.ContentRef, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, l := range r.s.likes {
		if l.Target() == target && l.LikedBy == userID {
			delete(r.s.likes, id)
			return true, nil
		}
	}
	return false, nil
}

func (r memLikes) CountByTarget(ctx context.Context, target model.ContentRef) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.likesOn(target), nil
}

func (r memLikes) ListLikedVideos(ctx context.Context, userID string) ([]model.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	videos := []model.Video{}
	for _, l := range r.s.likes {
		if l.LikedBy != userID || l.VideoID == nil {
			continue
		}
		if v, ok := r.s.videos[*l.VideoID]; ok && v.IsPublished {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func (r memLikes) DeleteByTarget(ctx context.Context, tx *sqlx.Tx, target model.ContentRef) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, l := range r.s.likes {
		if l.Target() == target {
			delete(r.s.likes, id)
			n++
		}
	}
	return n, nil
}

func (r memLikes) DeleteByCommentIDs(ctx context.Context, tx *sqlx.Tx, commentIDs []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := map[string]bool{}
	for _, id := range commentIDs {
		set[id] = true
	}
	var n int64
	for id, l := range r.s.likes {
		if l.CommentID != nil && set[*l.CommentID] {
			delete(r.s.likes, id)
			n++
		}
	}
	return n, nil
}

// =============================================================================
// PLAYLISTS AND SUBSCRIPTIONS
// =============================================================================

type memPlaylists struct{ s *memStore }

func (r memPlaylists) Create(ctx context.Context, p *model.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.playlists {
		if other.Owner == p.Owner && other.Name == p.Name {
			return model.ErrPlaylistNameExists
		}
	}
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	stored := *p
	stored.Videos = append([]string{}, p.Videos...)
	r.s.playlists[p.ID] = stored
	return nil
}

func (r memPlaylists) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[id]
	if !ok {
		return nil, model.ErrPlaylistNotFound
	}
	p.Videos = append([]string{}, p.Videos...)
	return &p, nil
}

func (r memPlaylists) ListByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	playlists := []model.Playlist{}
	for _, p := range r.s.playlists {
		if p.Owner == ownerID {
			p.Videos = append([]string{}, p.Videos...)
			playlists = append(playlists, p)
		}
	}
	return playlists, nil
}

func (r memPlaylists) Update(ctx context.Context, p *model.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.playlists[p.ID]
	if !ok {
		return model.ErrPlaylistNotFound
	}
	for _, other := range r.s.playlists {
		if other.ID != p.ID && other.Owner == p.Owner && other.Name == p.Name {
			return model.ErrPlaylistNameExists
		}
	}
	stored.Name, stored.Description, stored.UpdatedAt = p.Name, p.Description, time.Now()
	r.s.playlists[p.ID] = stored
	return nil
}

func (r memPlaylists) Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.playlists[id]; !ok {
		return 0, nil
	}
	delete(r.s.playlists, id)
	return 1, nil
}

func (r memPlaylists) AddVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[playlistID]
	if !ok || p.Contains(videoID) {
		return false, nil
	}
	p.Videos = append(p.Videos, videoID)
	r.s.playlists[playlistID] = p
	return true, nil
}

func (r memPlaylists) RemoveVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[playlistID]
	if !ok || !p.Contains(videoID) {
		return false, nil
	}
	kept := []string{}
	for _, id := range p.Videos {
		if id != videoID {
			kept = append(kept, id)
		}
	}
	p.Videos = kept
	r.s.playlists[playlistID] = p
	return true, nil
}

func (r memPlaylists) RemoveVideoFromAll(ctx context.Context, tx *sqlx.Tx, videoID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, p := range r.s.playlists {
		if !p.Contains(videoID) {
			continue
		}
		kept := []string{}
		for _, v := range p.Videos {
			if v != videoID {
				kept = append(kept, v)
			}
		}
		p.Videos = kept
		r.s.playlists[id] = p
		n++
	}
	return n, nil
}

type memSubscriptions struct{ s *memStore }

func (r memSubscriptions) Create(ctx context.Context, subscriberID, channelID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := subKey{subscriberID, channelID}
	if _, ok := r.s.subs[key]; ok {
		return false, nil
	}
	r.s.subs[key] = time.Now()
	return true, nil
}

func (r memSubscriptions) Delete(ctx context.Context, subscriberID, channelID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := subKey{subscriberID, channelID}
	if _, ok := r.s.subs[key]; !ok {
		return false, nil
	}
	delete(r.s.subs, key)
	return true, nil
}

func (r memSubscriptions) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.subs[subKey{subscriberID, channelID}]
	return ok, nil
}

func (r memSubscriptions) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	return int64(len(r.list(func(k subKey) (string, bool) { return k.subscriber, k.channel == channelID }))), nil
}

func (r memSubscriptions) CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error) {
	return int64(len(r.list(func(k subKey) (string, bool) { return k.channel, k.subscriber == subscriberID }))), nil
}

func (r memSubscriptions) ListSubscribers(ctx context.Context, channelID string) ([]model.UserSummary, error) {
	return r.list(func(k subKey) (string, bool) { return k.subscriber, k.channel == channelID }), nil
}

func (r memSubscriptions) ListChannels(ctx context.Context, subscriberID string) ([]model.UserSummary, error) {
	return r.list(func(k subKey) (string, bool) { return k.channel, k.subscriber == subscriberID }), nil
}

func (r memSubscriptions) list(match func(subKey) (string, bool)) []model.UserSummary {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := []model.UserSummary{}
	for k := range r.s.subs {
		id, ok := match(k)
		if !ok {
			continue
		}
		u := r.s.users[id]
		users = append(users, model.UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, AvatarURL: u.AvatarURL})
	}
	return users
}

// =============================================================================
// MEDIA AND JOURNAL
// =============================================================================

type fakeMedia struct {
	mu         sync.Mutex
	n          int
	uploaded   []string
	released   []string
	uploadErr  error
	releaseErr error
}

func (m *fakeMedia) Upload(ctx context.Context, file *model.MediaFile) (*model.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.n++
	key := fmt.Sprintf("%s/%d", file.Kind, m.n)
	result := &model.UploadResult{URL: "https://cdn.test/" + key, Key: key}
	if file.Kind == model.MediaVideo {
		result.Duration = 12.5
	}
	m.uploaded = append(m.uploaded, result.URL)
	return result, nil
}

func (m *fakeMedia) Release(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, url)
	return m.releaseErr
}

type journalEntry struct {
	url, entity, entityID, reason string
}

type fakeJournal struct {
	entries []journalEntry
}

func (j *fakeJournal) PublishMediaReleaseFailed(ctx context.Context, url, entity, entityID, reason string) (string, error) {
	j.entries = append(j.entries, journalEntry{url, entity, entityID, reason})
	return fmt.Sprintf("%d-0", len(j.entries)), nil
}

// =============================================================================
// TEST ENVIRONMENT
// =============================================================================

type testEnv struct {
	store   *memStore
	tx      *memTx
	media   *fakeMedia
	journal *fakeJournal
	metrics *metrics.Metrics

	cascade   *CascadeEngine
	tokens    *TokenService
	users     *UserService
	videos    *VideoService
	posts     *CommunityPostService
	comments  *CommentService
	likes     *LikeService
	playlists *PlaylistService
	subs      *SubscriptionService
	dashboard *DashboardService
}

var testTokenConfig = config.TokenConfig{
	AccessTokenSecret:  "access-secret-for-tests",
	AccessTokenExpiry:  time.Hour,
	RefreshTokenSecret: "refresh-secret-for-tests",
	RefreshTokenExpiry: 24 * time.Hour,
}

func newTestEnv() *testEnv {
	store := newMemStore()
	env := &testEnv{
		store:   store,
		tx:      &memTx{s: store},
		media:   &fakeMedia{},
		journal: &fakeJournal{},
		metrics: metrics.New(prometheus.NewRegistry()),
	}

	users, videos, posts := memUsers{store}, memVideos{store}, memPosts{store}
	comments, likes := memComments{store}, memLikes{store}
	playlists, subs := memPlaylists{store}, memSubscriptions{store}

	env.cascade = NewCascadeEngine(CascadeDeps{
		Tx:        env.tx,
		Users:     users,
		Videos:    videos,
		Posts:     posts,
		Comments:  comments,
		Likes:     likes,
		Playlists: playlists,
		Media:     env.media,
		Metrics:   env.metrics,
	})
	env.cascade.SetJournal(env.journal)

	env.tokens = NewTokenService(users, testTokenConfig)
	env.users = NewUserService(users, subs, env.media, env.cascade)
	env.videos = NewVideoService(videos, users, env.media, env.cascade)
	env.posts = NewCommunityPostService(posts, users, env.cascade)
	env.comments = NewCommentService(comments, videos, posts, env.cascade)
	env.likes = NewLikeService(likes, videos, comments, posts, env.metrics)
	env.playlists = NewPlaylistService(playlists, videos, users, env.tx)
	env.subs = NewSubscriptionService(subs, users, env.metrics)
	env.dashboard = NewDashboardService(videos, subs)
	return env
}

// addUser inserts a user directly, bypassing bcrypt and uploads.
func (e *testEnv) addUser(username string) *model.User {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	u := model.User{
		ID:        e.store.nextID(),
		Username:  username,
		Email:     username + "@example.com",
		FullName:  strings.ToUpper(username[:1]) + username[1:],
		AvatarURL: "https://cdn.test/avatar/" + username,
	}
	e.store.users[u.ID] = u
	return &u
}

func (e *testEnv) addVideo(ownerID string, published bool) *model.Video {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	id := e.store.nextID()
	v := model.Video{
		ID:           id,
		Owner:        ownerID,
		Title:        "Video " + id[len(id)-4:],
		VideoURL:     "https://cdn.test/video/" + id,
		ThumbnailURL: "https://cdn.test/thumbnail/" + id,
		Duration:     30,
		IsPublished:  published,
	}
	e.store.videos[id] = v
	return &v
}

func (e *testEnv) addPost(ownerID string) *model.CommunityPost {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	p := model.CommunityPost{ID: e.store.nextID(), Owner: ownerID, Title: "Hello", Content: "first post"}
	e.store.posts[p.ID] = p
	return &p
}

func (e *testEnv) addComment(parent model.ContentRef, ownerID string) *model.Comment {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	c := model.NewComment(parent, ownerID, "nice")
	c.ID = e.store.nextID()
	e.store.comments[c.ID] = *c
	return c
}

func (e *testEnv) addLike(target model.ContentRef, userID string) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	l := model.NewLike(target, userID)
	l.ID = e.store.nextID()
	e.store.likes[l.ID] = *l
}

func ptr[T any](v T) *T { return &v }

func (e *testEnv) addPlaylist(ownerID, name string, videoIDs ...string) *model.Playlist {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	p := model.Playlist{ID: e.store.nextID(), Owner: ownerID, Name: name, Videos: append([]string{}, videoIDs...)}
	e.store.playlists[p.ID] = p
	return &p
}

func (e *testEnv) watch(userID string, videoIDs ...string) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.history[userID] = append(e.store.history[userID], videoIDs...)
}

// counts returns comments and likes still referencing target.
func (e *testEnv) counts(target model.ContentRef) (comments int, likes int64) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return len(e.store.commentsOn(target)), e.store.likesOn(target)
}
