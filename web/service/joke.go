package service

import (
	"rjokes/database"
	"rjokes/database/model"
)

// RecentJokesLimit is how many jokes the sidebar shows.
const RecentJokesLimit = 5

type JokeService struct{}

// ListRecent returns up to limit jokes, most recently created first.
func (s *JokeService) ListRecent(limit int) ([]model.JokeListItem, error) {
	db := database.GetDB()

	items := make([]model.JokeListItem, 0, limit)
	err := db.Model(model.Joke{}).
		Select("id", "name").
		Order("created_at DESC").
		Limit(limit).
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetById returns one joke, or a not-found error (check with
// database.IsNotFound).
func (s *JokeService) GetById(id int) (*model.Joke, error) {
	db := database.GetDB()

	joke := &model.Joke{}
	err := db.Model(model.Joke{}).
		Select("id", "name", "content").
		Where("id = ?", id).
		First(joke).
		Error
	if err != nil {
		return nil, err
	}
	return joke, nil
}

// Random returns one uniformly selected joke. An empty joke table yields a
// not-found error.
func (s *JokeService) Random() (*model.Joke, error) {
	db := database.GetDB()

	joke := &model.Joke{}
	err := db.Model(model.Joke{}).
		Select("id", "name", "content").
		Order("RANDOM()").
		Take(joke).
		Error
	if err != nil {
		return nil, err
	}
	return joke, nil
}

// Create inserts a joke owned by jokesterId and returns the new id. A
// jokesterId with no matching user fails the insert (check with
// database.IsForeignKeyViolated).
func (s *JokeService) Create(name string, content string, jokesterId int) (int, error) {
	db := database.GetDB()

	joke := &model.Joke{
		JokesterId: jokesterId,
		Name:       name,
		Content:    content,
	}
	if err := db.Create(joke).Error; err != nil {
		return 0, err
	}
	return joke.Id, nil
}
