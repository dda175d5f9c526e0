// feed es el CLI del timeline social: lista publicaciones con sus
// previews de comentarios y permite like/guardar/publicar contra un
// server de la plataforma.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pet-care-platform/internal/client"
	"pet-care-platform/internal/social"
)

func main() {
	var (
		baseURL   = flag.String("base", envOr("API_BASE_URL", "http://localhost:8080"), "base URL del API")
		token     = flag.String("token", os.Getenv("API_TOKEN"), "bearer token")
		debugUser = flag.String("user", os.Getenv("DEBUG_USER_ID"), "user id para modo dev (X-Debug-User-ID)")
	)
	flag.Parse()

	api, err := client.New(*baseURL, *token)
	if err != nil {
		fail("invalid base URL: %v", err)
	}
	if *debugUser != "" {
		api = api.WithDebugUser(*debugUser)
	}

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)
	tl := social.NewTimeline(api)

	if err := tl.Refresh(ctx); err != nil {
		fail("%s", client.UserMessage(err))
	}

	for {
		render(tl)
		switch cmd, arg := promptCmd(in); cmd {
		case "q", "":
			return
		case "r":
			if err := tl.Refresh(ctx); err != nil && err != social.ErrBusy {
				fmt.Println(client.UserMessage(err))
			}
		case "m":
			if err := tl.LoadMore(ctx); err != nil && err != social.ErrBusy {
				fmt.Println(client.UserMessage(err))
			}
		case "l":
			if p := pickPost(tl, arg); p != nil {
				if err := tl.ToggleLike(ctx, p.ID); err != nil {
					fmt.Println(client.UserMessage(err))
				}
			}
		case "s":
			if p := pickPost(tl, arg); p != nil {
				if err := tl.ToggleSave(ctx, p.ID); err != nil {
					fmt.Println(client.UserMessage(err))
				}
			}
		case "c":
			if p := pickPost(tl, arg); p != nil {
				body := promptLine(in, "comentario")
				if body == "" {
					continue
				}
				if _, err := api.CreateComment(ctx, p.ID, body); err != nil {
					fmt.Println(client.UserMessage(err))
					continue
				}
				if err := tl.Refresh(ctx); err != nil && err != social.ErrBusy {
					fmt.Println(client.UserMessage(err))
				}
			}
		case "p":
			body := promptLine(in, "texto de la publicación")
			if body == "" {
				continue
			}
			if _, err := api.CreatePost(ctx, client.CreatePostInput{Body: body}); err != nil {
				fmt.Println(client.UserMessage(err))
				continue
			}
			if err := tl.Refresh(ctx); err != nil && err != social.ErrBusy {
				fmt.Println(client.UserMessage(err))
			}
		default:
			fmt.Println("comando desconocido")
		}
	}
}

func render(tl *social.Timeline) {
	posts := tl.Posts()
	if len(posts) == 0 {
		fmt.Println("\n(sin publicaciones)")
		return
	}

	fmt.Println()
	for i, p := range posts {
		liked := " "
		if tl.Liked(p.ID) {
			liked = "♥"
		}
		saved := ""
		if tl.Saved(p.ID) {
			saved = " [guardado]"
		}
		fmt.Printf("%2d)%s @%s: %s  (%d likes, %d comentarios)%s\n",
			i+1, liked, p.AuthorUserID, firstLine(p.Body), p.LikeCount, p.CommentCount, saved)
		for _, c := range tl.Previews(p.ID) {
			fmt.Printf("      └ @%s: %s\n", c.AuthorUserID, firstLine(c.Body))
		}
	}
	fmt.Println("\n[l N] like  [s N] guardar  [c N] comentar  [p] publicar  [m] más  [r] recargar  [q] salir")
}

// pickPost resuelve un índice 1-based del render al post correspondiente.
func pickPost(tl *social.Timeline, arg string) *client.Post {
	posts := tl.Posts()
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > len(posts) {
		fmt.Println("número de publicación inválido")
		return nil
	}
	return &posts[i-1]
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " …"
	}
	if len(s) > 80 {
		s = s[:80] + "…"
	}
	return s
}

func promptCmd(in *bufio.Scanner) (string, string) {
	line := promptLine(in, ">")
	cmd, arg, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func promptLine(in *bufio.Scanner, label string) string {
	fmt.Printf("%s ", label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
