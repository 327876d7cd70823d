package models

import (
	"encoding/json"
	"time"
)

// Esquemas intermedios decodificados en el borde del cliente upstream.
// Cada forma de respuesta de la API tiene su tipo explícito para que los
// componentes de aguas abajo no tengan que navegar campos opcionales anidados.

type (
	// IssueNode es el nodo de issue tal como lo devuelve la consulta GraphQL,
	// ya aplanado: las conexiones (labels, assignees, projectItems) vienen
	// resueltas como slices.
	IssueNode struct {
		Number       int
		Title        string
		Body         *string
		State        string
		CreatedAt    time.Time
		UpdatedAt    time.Time
		ClosedAt     *time.Time
		URL          string
		Labels       []Label
		Assignees    []Assignee
		Milestone    *MilestoneRef
		CommentCount int
		Author       *Author
		ProjectItems []ProjectItem
	}

	// ProjectItem es la asociación de una issue con un tablero de proyecto.
	ProjectItem struct {
		FieldValues []FieldValue
	}

	// FieldValue es el valor de un campo personalizado del tablero.
	// FieldName es el nombre declarado del campo y Value el valor seleccionado.
	FieldValue struct {
		FieldName string
		Value     string
	}

	// RawEvent es un evento del feed de actividad con su payload sin decodificar.
	RawEvent struct {
		ID        string
		Type      string
		Actor     Assignee
		CreatedAt time.Time
		RepoName  string
		Payload   json.RawMessage
	}

	// Comment es un comentario de issue en su forma REST; no se renormaliza.
	Comment struct {
		ID        int64      `json:"id"`
		Body      string     `json:"body"`
		User      *Assignee  `json:"user"`
		CreatedAt time.Time  `json:"created_at"`
		UpdatedAt *time.Time `json:"updated_at"`
		HTMLURL   string     `json:"html_url"`
	}
)
