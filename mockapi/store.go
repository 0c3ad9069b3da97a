package mockapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jsonplaceholder-qa/api-contract-tests/servicedef"
)

// Sizes of the generated collections. They match the real service.
const (
	UserCount          = 10
	PostsPerUser       = 10
	CommentsPerPost    = 5
	TodosPerUser       = 20
	AlbumsPerUser      = 10
	PhotosPerAlbum     = 50
	photoColorModulus  = 0xffffff
	placeholderBaseURL = "https://via.placeholder.com"
)

var words = strings.Fields(`sunt aut facere repellat provident occaecati excepturi optio reprehenderit
qui est esse ea molestias quasi exercitationem nesciunt magnam eum dolorem voluptatem
eveniet quia velit odit autem sint quidem doloremque blanditiis`)

var cities = []string{"Gwenborough", "Wisokyburgh", "McKenziehaven", "South Elvis", "Roscoeview"}

type resource struct {
	name     string
	children map[string]string // child collection -> foreign key in the child
}

var resources = []resource{
	{name: "posts", children: map[string]string{"comments": servicedef.ParamPostID}},
	{name: "comments"},
	{name: "users", children: map[string]string{
		"posts":  servicedef.ParamUserID,
		"todos":  servicedef.ParamUserID,
		"albums": servicedef.ParamUserID,
	}},
	{name: "todos"},
	{name: "albums", children: map[string]string{"photos": servicedef.ParamAlbumID}},
	{name: "photos"},
}

// Store is an immutable set of generated resources. Write requests are answered as if they had
// been applied, but nothing is persisted.
type Store struct {
	Posts    []servicedef.Post
	Comments []servicedef.Comment
	Users    []servicedef.User
	Todos    []servicedef.Todo
	Albums   []servicedef.Album
	Photos   []servicedef.Photo

	collections map[string][]map[string]interface{}
}

// NewStore generates the same data every time.
func NewStore() *Store {
	s := &Store{}
	for u := 1; u <= UserCount; u++ {
		s.Users = append(s.Users, makeUser(u))
		for i := 0; i < PostsPerUser; i++ {
			s.Posts = append(s.Posts, servicedef.Post{
				ID:     len(s.Posts) + 1,
				UserID: u,
				Title:  phrase(len(s.Posts), 6),
				Body:   phrase(len(s.Posts)*3, 20) + "\n" + phrase(len(s.Posts)*5, 12),
			})
		}
		for i := 0; i < TodosPerUser; i++ {
			id := len(s.Todos) + 1
			s.Todos = append(s.Todos, servicedef.Todo{UserID: u, ID: id, Title: phrase(id, 5), Completed: id%3 == 0})
		}
		for i := 0; i < AlbumsPerUser; i++ {
			id := len(s.Albums) + 1
			s.Albums = append(s.Albums, servicedef.Album{UserID: u, ID: id, Title: phrase(id*7, 4)})
		}
	}
	for _, p := range s.Posts {
		for i := 0; i < CommentsPerPost; i++ {
			id := len(s.Comments) + 1
			s.Comments = append(s.Comments, servicedef.Comment{
				PostID: p.ID,
				ID:     id,
				Name:   phrase(id*2, 5),
				Email:  fmt.Sprintf("%s.%d@%s.example", words[id%len(words)], id, words[(id+3)%len(words)]),
				Body:   phrase(id*11, 18),
			})
		}
	}
	for _, a := range s.Albums {
		for i := 0; i < PhotosPerAlbum; i++ {
			id := len(s.Photos) + 1
			color := fmt.Sprintf("%06x", (id*2654435761)%photoColorModulus)
			s.Photos = append(s.Photos, servicedef.Photo{
				AlbumID:      a.ID,
				ID:           id,
				Title:        phrase(id*13, 6),
				URL:          fmt.Sprintf("%s/600/%s", placeholderBaseURL, color),
				ThumbnailURL: fmt.Sprintf("%s/150/%s", placeholderBaseURL, color),
			})
		}
	}

	s.collections = map[string][]map[string]interface{}{
		"posts":    toObjects(s.Posts),
		"comments": toObjects(s.Comments),
		"users":    toObjects(s.Users),
		"todos":    toObjects(s.Todos),
		"albums":   toObjects(s.Albums),
		"photos":   toObjects(s.Photos),
	}
	return s
}

func makeUser(id int) servicedef.User {
	name := title(words[id%len(words)]) + " " + title(words[(id*5)%len(words)])
	username := fmt.Sprintf("%s%d", title(words[(id*2)%len(words)]), id)
	return servicedef.User{
		ID:       id,
		Name:     name,
		Username: username,
		Email:    fmt.Sprintf("%s@%s.example", username, words[(id+1)%len(words)]),
		Address: servicedef.Address{
			Street:  title(words[(id*3)%len(words)]) + " Street",
			Suite:   fmt.Sprintf("Apt. %d", 100+id*7),
			City:    cities[id%len(cities)],
			Zipcode: fmt.Sprintf("%05d-%04d", 10000+id*811, id*37),
			Geo: servicedef.Geo{
				Lat: fmt.Sprintf("%.4f", float64(id*97%180)-90+0.1234),
				Lng: fmt.Sprintf("%.4f", float64(id*131%360)-180+0.5678),
			},
		},
		Phone:   fmt.Sprintf("1-770-736-%04d", 8000+id),
		Website: fmt.Sprintf("%s.example.org", strings.ToLower(username)),
		Company: servicedef.Company{
			Name:        title(words[(id*7)%len(words)]) + " Group",
			CatchPhrase: phrase(id*17, 3),
			BS:          phrase(id*19, 3),
		},
	}
}

// A Caser keeps state, so each call gets its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func phrase(seed, n int) string {
	ret := make([]string, n)
	for i := range ret {
		ret[i] = words[(seed+i*7)%len(words)]
	}
	return strings.Join(ret, " ")
}

func toObjects(items interface{}) []map[string]interface{} {
	data, err := json.Marshal(items)
	if err != nil {
		panic(err)
	}
	var ret []map[string]interface{}
	if err := json.Unmarshal(data, &ret); err != nil {
		panic(err)
	}
	return ret
}

func (s *Store) list(name string) []map[string]interface{} {
	return s.collections[name]
}

func (s *Store) find(name, id string) (map[string]interface{}, bool) {
	for _, item := range s.collections[name] {
		if fmt.Sprint(item["id"]) == id {
			return item, true
		}
	}
	return nil, false
}
