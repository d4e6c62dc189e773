package ibge

// municipioPayload mirrors one entry of the localidades/municipios
// response, keeping only the nesting needed to reach the UF sigla.
type municipioPayload struct {
	ID           int64  `json:"id"`
	Nome         string `json:"nome"`
	Microrregiao struct {
		Mesorregiao struct {
			UF struct {
				Sigla string `json:"sigla"`
			} `json:"UF"`
		} `json:"mesorregiao"`
	} `json:"microrregiao"`
}

// projecaoPayload mirrors one entry of the projecoes/populacao/municipios
// response.
type projecaoPayload struct {
	ID        int64   `json:"id"`
	Municipio string  `json:"municipio"`
	Populacao float64 `json:"populacao"`
}
